// Package physics provides the collision-shape data the terrain engine
// hands to an external physics engine, plus local height queries against
// those shapes.
package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FrictionCombine selects how two touching materials merge their friction
// coefficients.
type FrictionCombine uint8

const (
	CombineAverage FrictionCombine = iota
	CombineMin
	CombineMax
)

// StaticBody carries the fixed-body parameters attached alongside a
// heightfield shape.
type StaticBody struct {
	Friction float32
	Combine  FrictionCombine
}

// DefaultStaticBody is the standard terrain body: fixed, friction 1.0,
// averaged combine rule.
func DefaultStaticBody() StaticBody {
	return StaticBody{Friction: 1.0, Combine: CombineAverage}
}

// Heightfield is a collision shape defined by a regular grid of height
// samples. Rows and Cols count samples per axis; CellScale is
// (step, 1, step) in world units. Heights are row-major, immutable after
// construction.
type Heightfield struct {
	Rows, Cols int
	CellScale  mgl32.Vec3
	Heights    []float32
	Body       StaticBody
}

// NewHeightfield validates the grid and wraps it into a shape.
func NewHeightfield(heights []float32, rows, cols int, cellScale mgl32.Vec3) (*Heightfield, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("heightfield %dx%d: need at least 2 samples per axis", rows, cols)
	}
	if len(heights) != rows*cols {
		return nil, fmt.Errorf("heightfield %dx%d: got %d samples, want %d", rows, cols, len(heights), rows*cols)
	}
	return &Heightfield{
		Rows:      rows,
		Cols:      cols,
		CellScale: cellScale,
		Heights:   heights,
		Body:      DefaultStaticBody(),
	}, nil
}

// HeightAt bilinearly interpolates the field at shape-local (x,z) world
// units. The second return is false outside the field's footprint.
func (h *Heightfield) HeightAt(localX, localZ float32) (float32, bool) {
	u := localX / h.CellScale.X()
	v := localZ / h.CellScale.Z()
	if u < 0 || v < 0 || u > float32(h.Cols-1) || v > float32(h.Rows-1) {
		return 0, false
	}
	x0 := int(math.Floor(float64(u)))
	z0 := int(math.Floor(float64(v)))
	x1 := min(x0+1, h.Cols-1)
	z1 := min(z0+1, h.Rows-1)
	tx := u - float32(x0)
	tz := v - float32(z0)

	idx := func(x, z int) int { return z*h.Cols + x }
	h00 := h.Heights[idx(x0, z0)]
	h10 := h.Heights[idx(x1, z0)]
	h01 := h.Heights[idx(x0, z1)]
	h11 := h.Heights[idx(x1, z1)]

	a := h00 + (h10-h00)*tx
	b := h01 + (h11-h01)*tx
	return a + (b-a)*tz, true
}
