package terrain

import (
	"testing"

	"terrastream/internal/config"
)

func TestLODTierSelection(t *testing.T) {
	cfg := config.Default().Terrain // near 96, mid 48 @ 512, far 24 @ 800
	l := NewLODSelector(cfg)

	cases := []struct {
		dist     float32
		wantRes  int
		collider bool
	}{
		{0, 96, true},
		{512, 96, true}, // boundary stays in the nearer tier
		{512.1, 48, true},
		{800, 48, true},
		{800.1, 24, false},
		{5000, 24, false},
	}
	for _, c := range cases {
		res, collider := l.Select(c.dist)
		if res != c.wantRes || collider != c.collider {
			t.Errorf("Select(%v) = (%d, %v), want (%d, %v)", c.dist, res, collider, c.wantRes, c.collider)
		}
	}
}

func TestLODMonotonic(t *testing.T) {
	l := NewLODSelector(config.Default().Terrain)
	prev, _ := l.Select(0)
	for d := float32(0); d < 2000; d += 2.5 {
		res, _ := l.Select(d)
		if res > prev {
			t.Fatalf("resolution increased from %d to %d at distance %v", prev, res, d)
		}
		prev = res
	}
}

func TestLODOrderingValidated(t *testing.T) {
	cfg := config.Default().Terrain
	cfg.LODMidResolution = cfg.Resolution // violates near > mid
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for non-decreasing resolutions")
	}

	cfg = config.Default().Terrain
	cfg.LODFarDistance = cfg.LODMidDistance // violates far > mid
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for far <= mid distance")
	}
}
