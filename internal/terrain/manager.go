package terrain

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"terrastream/internal/config"
	"terrastream/internal/physics"
	"terrastream/internal/profiling"
)

// Manager streams chunks around a moving observer. One control goroutine
// owns it and calls Update once per cycle; chunk construction happens on
// the manager's worker pool. Per coordinate the lifecycle is
// NotPresent -> Pending (submit) -> Loaded (finalize) -> NotPresent
// (evict); the pending set and the store never share a coordinate.
type Manager struct {
	cfg     config.TerrainConfig
	sampler *Sampler
	lod     LODSelector
	store   *ChunkStore
	pool    *buildPool
	log     *zap.Logger

	// Owned by the control goroutine; never touched by workers.
	pending map[ChunkCoord]struct{}
	gen     uint64 // bumped on invalidation so stale results are dropped
	desired []ChunkCoord

	material MaterialRange

	// Optional hooks into the external renderer/physics world, invoked on
	// the control goroutine during finalize and eviction.
	OnChunkLoaded  func(*ChunkRecord)
	OnChunkEvicted func(*ChunkRecord)
}

// NewManager validates the config, constructs the sampler (fatal on a
// bad heightmap), and starts the build workers.
func NewManager(cfg config.TerrainConfig, log *zap.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	sampler, err := NewSampler(cfg)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	m := &Manager{
		cfg:     cfg,
		sampler: sampler,
		lod:     NewLODSelector(cfg),
		store:   NewChunkStore(),
		pool:    newBuildPool(sampler, cfg.ChunkSize, log),
		log:     log,
		pending: make(map[ChunkCoord]struct{}),
	}
	return m, nil
}

// Store exposes the loaded-chunk registry for read-only consumers.
func (m *Manager) Store() *ChunkStore { return m.store }

// Sampler exposes the pure height/normal query surface.
func (m *Manager) Sampler() *Sampler { return m.sampler }

// Material returns the shared material's current height window.
func (m *Manager) Material() *MaterialRange { return &m.material }

// PendingCount returns the number of in-flight builds.
func (m *Manager) PendingCount() int { return len(m.pending) }

// Update runs one control cycle: submit missing chunks nearest-first
// under the spawn budget, drain finished builds without blocking, then
// evict whatever drifted outside the view radius.
func (m *Manager) Update(observer mgl32.Vec3) {
	defer profiling.Track("terrain.Update")()

	center := ChunkAt(observer.X(), observer.Z(), m.cfg.ChunkSize)
	m.submitDesired(center, observer)
	m.finalize()
	m.evict(center)
}

// submitDesired diffs the desired set against the registries and queues
// builds for the gaps, nearest chunks first.
func (m *Manager) submitDesired(center ChunkCoord, observer mgl32.Vec3) {
	defer profiling.Track("terrain.submit")()

	r := m.cfg.ViewRadiusChunks
	m.desired = m.desired[:0]
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			m.desired = append(m.desired, ChunkCoord{X: center.X + dx, Z: center.Z + dz})
		}
	}
	sort.Slice(m.desired, func(i, j int) bool {
		return m.desired[i].DistSq(center) < m.desired[j].DistSq(center)
	})

	budget := m.cfg.MaxSpawnPerFrame
	for _, coord := range m.desired {
		if budget == 0 {
			break
		}
		if m.store.Has(coord) {
			continue
		}
		if _, ok := m.pending[coord]; ok {
			continue
		}

		cx := float32(coord.X)*m.cfg.ChunkSize + m.cfg.ChunkSize*0.5
		cz := float32(coord.Z)*m.cfg.ChunkSize + m.cfg.ChunkSize*0.5
		dist := mgl32.Vec2{cx - observer.X(), cz - observer.Z()}.Len()
		res, collider := m.lod.Select(dist)

		if !m.pool.submit(buildJob{coord: coord, res: res, collider: collider, gen: m.gen}) {
			// Queue full; leave the coordinate unmarked and retry next cycle.
			break
		}
		m.pending[coord] = struct{}{}
		budget--
	}
}

// finalize merges every already-completed build into the world. It never
// blocks; unfinished builds stay pending for later cycles.
func (m *Manager) finalize() {
	defer profiling.Track("terrain.finalize")()

	for {
		out, ok := m.pool.tryRecv()
		if !ok {
			return
		}
		if out.gen != m.gen {
			continue // built against a sampler that no longer exists
		}
		if _, ok := m.pending[out.coord]; !ok {
			continue
		}
		delete(m.pending, out.coord)
		if out.failed {
			continue // dropped; a future cycle may resubmit
		}

		res := out.result
		rec := &ChunkRecord{
			Coord: res.Coord,
			Res:   res.Res,
			Origin: mgl32.Vec3{
				float32(res.Coord.X) * m.cfg.ChunkSize,
				0,
				float32(res.Coord.Z) * m.cfg.ChunkSize,
			},
			Mesh: res.Mesh,
			MinH: res.MinH,
			MaxH: res.MaxH,
		}
		if res.ColliderEligible {
			hf, err := physics.NewHeightfield(res.Heights, res.Res+1, res.Res+1,
				mgl32.Vec3{res.Step, 1, res.Step})
			if err != nil {
				m.log.Error("heightfield rejected",
					zap.Int("cx", res.Coord.X), zap.Int("cz", res.Coord.Z), zap.Error(err))
			} else {
				rec.Collider = hf
			}
		}

		if m.material.Observe(res.MinH, res.MaxH) {
			m.log.Info("terrain material created",
				zap.Float32("min_h", res.MinH), zap.Float32("max_h", res.MaxH))
		}

		m.store.Add(rec)
		if m.OnChunkLoaded != nil {
			m.OnChunkLoaded(rec)
		}
	}
}

// evict removes chunks outside the view radius. A build that finished for
// an out-of-view coordinate was still finalized above and goes away here
// on this or a later cycle.
func (m *Manager) evict(center ChunkCoord) {
	defer profiling.Track("terrain.evict")()

	for _, rec := range m.store.EvictOutside(center, m.cfg.ViewRadiusChunks) {
		if m.OnChunkEvicted != nil {
			m.OnChunkEvicted(rec)
		}
	}
}

// ApplyConfig swaps in a new configuration. Changes to chunk size,
// amplitude, view radius, or the heightmap's path/extent despawn
// everything, clear both registries, and rebuild the sampler and workers
// from scratch; other changes only affect future submissions.
func (m *Manager) ApplyConfig(next config.TerrainConfig) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	rebuild := m.cfg.RequiresRebuild(&next)
	if rebuild {
		sampler, err := NewSampler(next)
		if err != nil {
			return fmt.Errorf("terrain: %w", err)
		}
		for _, rec := range m.store.Clear() {
			if m.OnChunkEvicted != nil {
				m.OnChunkEvicted(rec)
			}
		}
		clear(m.pending)
		m.gen++
		m.pool.shutdown()
		m.sampler = sampler
		m.pool = newBuildPool(sampler, next.ChunkSize, m.log)
		m.log.Info("terrain config changed, regenerating",
			zap.String("mode", next.Mode), zap.Int("view_radius", next.ViewRadiusChunks))
	}
	m.cfg = next
	m.lod = NewLODSelector(next)
	return nil
}

// GroundHeight queries the loaded colliders at world (x,z). Returns false
// where no collider-eligible chunk is resident.
func (m *Manager) GroundHeight(x, z float32) (float32, bool) {
	coord := ChunkAt(x, z, m.cfg.ChunkSize)
	rec := m.store.Get(coord)
	if rec == nil || rec.Collider == nil {
		return 0, false
	}
	return rec.Collider.HeightAt(x-rec.Origin.X(), z-rec.Origin.Z())
}

// Close stops the build workers.
func (m *Manager) Close() {
	m.pool.shutdown()
}
