package terrain

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"terrastream/internal/physics"
)

// ChunkRecord is one resident chunk: its mesh buffers, world placement,
// and collider when the LOD tier carries one. Created by the finalizer,
// destroyed by eviction.
type ChunkRecord struct {
	Coord      ChunkCoord
	Res        int
	Origin     mgl32.Vec3 // world position of the chunk's (0,0) corner
	Mesh       Mesh
	Collider   *physics.Heightfield // nil for far-tier chunks
	MinH, MaxH float32
}

// ChunkStore is the registry of loaded chunks. The control goroutine is
// the only writer; the read lock lets renderers and queries iterate from
// other goroutines.
type ChunkStore struct {
	mu       sync.RWMutex
	chunks   map[ChunkCoord]*ChunkRecord
	modCount uint64 // increases on any add/remove
}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[ChunkCoord]*ChunkRecord)}
}

// Get returns the record at coord, or nil.
func (cs *ChunkStore) Get(coord ChunkCoord) *ChunkRecord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// Has reports whether coord is loaded.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	return ok
}

// Add installs a record. Silently keeps the existing one on duplicate add;
// duplicates are prevented upstream by registry membership checks.
func (cs *ChunkStore) Add(rec *ChunkRecord) {
	cs.mu.Lock()
	if _, ok := cs.chunks[rec.Coord]; !ok {
		cs.chunks[rec.Coord] = rec
		cs.modCount++
	}
	cs.mu.Unlock()
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// ModCount returns the current modification count.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// ForEach calls fn under the read lock for every loaded record.
func (cs *ChunkStore) ForEach(fn func(*ChunkRecord)) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for _, rec := range cs.chunks {
		fn(rec)
	}
}

// EvictOutside removes every record whose Chebyshev distance to center
// exceeds radius and returns the removed records.
func (cs *ChunkStore) EvictOutside(center ChunkCoord, radius int) []*ChunkRecord {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	var removed []*ChunkRecord
	for coord, rec := range cs.chunks {
		if coord.Chebyshev(center) > radius {
			delete(cs.chunks, coord)
			cs.modCount++
			removed = append(removed, rec)
		}
	}
	return removed
}

// Clear removes everything, returning the removed records.
func (cs *ChunkStore) Clear() []*ChunkRecord {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	removed := make([]*ChunkRecord, 0, len(cs.chunks))
	for coord, rec := range cs.chunks {
		delete(cs.chunks, coord)
		cs.modCount++
		removed = append(removed, rec)
	}
	return removed
}
