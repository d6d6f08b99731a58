package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"terrastream/internal/config"
)

// Source is a pure height function. Implementations must be stateless
// after construction so build workers can share one instance freely.
type Source interface {
	Height(x, z float32) float32
}

// rasterSource maps world (x,z) centered at the origin onto a heightmap.
// Outside the declared extent the height is 0 rather than an error, so
// boundary queries degrade gracefully.
type rasterSource struct {
	hm        *Heightmap
	worldSize float32
	maxHeight float32
	amplitude float32
}

func (r *rasterSource) Height(x, z float32) float32 {
	nx := x/r.worldSize + 0.5
	nz := z/r.worldSize + 0.5
	if nx < 0 || nx > 1 || nz < 0 || nz > 1 {
		return 0
	}
	w, h := r.hm.Size()
	u := nx * float32(w-1)
	v := nz * float32(h-1)
	return r.hm.SampleLinear(u, v) * r.maxHeight * r.amplitude
}

// Sampler answers height and surface-normal queries for the whole world.
// It is immutable and lock-free; many build tasks read it concurrently.
type Sampler struct {
	cfg     config.TerrainConfig
	src     Source
	spacing float32 // central-difference step for Normal
}

// NewSampler constructs the configured height source. A heightmap that
// cannot be loaded is fatal: no sampler, no terrain.
func NewSampler(cfg config.TerrainConfig) (*Sampler, error) {
	var src Source
	switch cfg.Mode {
	case config.ModeHeightmap:
		hm, err := LoadHeightmap(cfg.Heightmap.Path)
		if err != nil {
			return nil, fmt.Errorf("sampler: %w", err)
		}
		src = &rasterSource{
			hm:        hm,
			worldSize: cfg.Heightmap.WorldSize,
			maxHeight: cfg.Heightmap.MaxHeight,
			amplitude: cfg.Amplitude,
		}
	case config.ModeNoise:
		src = newNoiseSource(cfg.Noise, cfg.Amplitude)
	default:
		return nil, fmt.Errorf("sampler: unknown mode %q", cfg.Mode)
	}

	// Clamp the normal probe spacing so it neither drowns in float noise
	// nor skips over real detail.
	d := cfg.ChunkSize / float32(cfg.Resolution)
	d = mgl32.Clamp(d, 0.05, 0.5)

	return &Sampler{cfg: cfg, src: src, spacing: d}, nil
}

// Config returns the snapshot the sampler was built from.
func (s *Sampler) Config() config.TerrainConfig { return s.cfg }

// Height returns the terrain elevation at world (x,z).
func (s *Sampler) Height(x, z float32) float32 {
	return s.src.Height(x, z)
}

// Normal returns the unit surface normal at world (x,z) via central
// differences over four neighbors. Perfectly flat input yields the zero
// vector.
func (s *Sampler) Normal(x, z float32) mgl32.Vec3 {
	d := s.spacing
	hl := s.Height(x-d, z)
	hr := s.Height(x+d, z)
	hd := s.Height(x, z-d)
	hu := s.Height(x, z+d)
	return normalizeOrZero(mgl32.Vec3{hl - hr, 2 * d, hd - hu})
}

func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
