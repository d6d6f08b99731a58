package terrain

import (
	"terrastream/internal/config"
)

// LODSelector maps observer-to-chunk distance to mesh resolution and
// collider eligibility. Pure; validated once at construction so Select
// never has to.
type LODSelector struct {
	nearRes, midRes, farRes int
	midDist, farDist        float32
}

// NewLODSelector builds a selector from a validated config. The required
// ordering (near > mid > far > 0, far dist > mid dist >= 0) is enforced by
// TerrainConfig.Validate.
func NewLODSelector(cfg config.TerrainConfig) LODSelector {
	return LODSelector{
		nearRes: cfg.Resolution,
		midRes:  cfg.LODMidResolution,
		farRes:  cfg.LODFarResolution,
		midDist: cfg.LODMidDistance,
		farDist: cfg.LODFarDistance,
	}
}

// Select returns the mesh resolution for a chunk at the given distance and
// whether that tier carries a collider. Farther chunks never get a finer
// resolution than nearer ones.
func (l LODSelector) Select(dist float32) (res int, collider bool) {
	switch {
	case dist > l.farDist:
		res = l.farRes
	case dist > l.midDist:
		res = l.midRes
	default:
		res = l.nearRes
	}
	return res, res != l.farRes
}
