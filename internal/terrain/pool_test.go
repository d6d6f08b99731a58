package terrain

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"terrastream/internal/config"
)

// panickySampler builds a sampler whose source dereferences a nil raster
// for every in-extent coordinate, so any build task panics.
func panickySampler(cfg config.TerrainConfig) *Sampler {
	return &Sampler{
		cfg:     cfg,
		src:     &rasterSource{hm: nil, worldSize: 1e6, maxHeight: 200, amplitude: 1},
		spacing: 0.1,
	}
}

func recvOutcome(t *testing.T, p *buildPool) buildOutcome {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if out, ok := p.tryRecv(); ok {
			return out
		}
		if time.Now().After(deadline) {
			t.Fatal("no build outcome before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBuildPanicYieldsFailedOutcome(t *testing.T) {
	cfg := streamTestConfig()
	p := newBuildPool(panickySampler(cfg), cfg.ChunkSize, zap.NewNop())
	defer p.shutdown()

	job := buildJob{coord: ChunkCoord{X: 1, Z: -2}, res: 4, collider: true, gen: 3}
	if !p.submit(job) {
		t.Fatal("submit rejected with an empty queue")
	}
	out := recvOutcome(t, p)
	if !out.failed {
		t.Fatal("panicking build did not report a failed outcome")
	}
	if out.coord != job.coord || out.gen != job.gen {
		t.Errorf("failed outcome carries (%+v, gen %d), want (%+v, gen %d)",
			out.coord, out.gen, job.coord, job.gen)
	}

	// The workers survive the panic; later jobs still produce outcomes.
	if !p.submit(buildJob{coord: ChunkCoord{X: 7, Z: 7}, res: 4, gen: 3}) {
		t.Fatal("submit rejected after a recovered panic")
	}
	out = recvOutcome(t, p)
	if !out.failed || out.coord.X != 7 {
		t.Errorf("second outcome = %+v, want failed build for (7,7)", out)
	}
}

func TestFailedBuildsLeaveCoordinatesResubmittable(t *testing.T) {
	cfg := streamTestConfig()
	sampler := panickySampler(cfg)
	m := &Manager{
		cfg:     cfg,
		sampler: sampler,
		lod:     NewLODSelector(cfg),
		store:   NewChunkStore(),
		pool:    newBuildPool(sampler, cfg.ChunkSize, zap.NewNop()),
		log:     zap.NewNop(),
		pending: make(map[ChunkCoord]struct{}),
	}
	t.Cleanup(m.Close)

	// Failed outcomes drain the pending set without loading anything.
	settle(t, m, mgl32.Vec3{0, 0, 0})
	if m.store.Len() != 0 {
		t.Fatalf("%d chunks loaded from panicking builds", m.store.Len())
	}

	// The dropped coordinates count as never submitted: the next cycle's
	// submit phase queues them again.
	m.submitDesired(ChunkCoord{}, mgl32.Vec3{0, 0, 0})
	if m.PendingCount() == 0 {
		t.Error("failed coordinates were not resubmitted")
	}
}
