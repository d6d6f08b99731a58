package terrain

// MaterialRange tracks the global height-normalization window for the
// shared terrain material. Created lazily on the first finalized chunk;
// the bounds only ever widen, so every chunk keeps rendering with one
// batched material.
type MaterialRange struct {
	created    bool
	minH, maxH float32
}

// Observe widens the range with one chunk's extremes. Returns true the
// first time, when the shared material should be created.
func (m *MaterialRange) Observe(minH, maxH float32) (first bool) {
	if !m.created {
		m.created = true
		m.minH = minH
		m.maxH = maxH
		return true
	}
	m.minH = min(m.minH, minH)
	m.maxH = max(m.maxH, maxH)
	return false
}

// Bounds returns the current window. ok is false before any chunk has
// been finalized.
func (m *MaterialRange) Bounds() (minH, maxH float32, ok bool) {
	return m.minH, m.maxH, m.created
}
