package terrain

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// buildJob is one chunk construction request.
type buildJob struct {
	coord    ChunkCoord
	res      int
	collider bool
	gen      uint64 // invalidation generation the job was submitted under
}

// buildOutcome is what a worker reports back. A failed outcome carries no
// result; the coordinate is treated as never submitted so a later cycle
// can retry it.
type buildOutcome struct {
	result BuildResult
	coord  ChunkCoord
	gen    uint64
	failed bool
}

// buildPool runs chunk builds on a fixed set of workers. Jobs for
// disjoint coordinates are fully independent; nothing in the pool mutates
// shared state beyond the two channels.
type buildPool struct {
	sampler *Sampler
	jobs    chan buildJob
	results chan buildOutcome
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *zap.Logger
}

func newBuildPool(sampler *Sampler, chunkSize float32, log *zap.Logger) *buildPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &buildPool{
		sampler: sampler,
		jobs:    make(chan buildJob, 1024),
		results: make(chan buildOutcome, 1024),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
	workers := max(runtime.NumCPU(), 1)
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(chunkSize)
	}
	return p
}

// submit queues a build. Returns false when the queue is full; the caller
// keeps the coordinate unmarked and retries on a later cycle.
func (p *buildPool) submit(job buildJob) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// tryRecv returns the next finished build without blocking.
func (p *buildPool) tryRecv() (buildOutcome, bool) {
	select {
	case out := <-p.results:
		return out, true
	default:
		return buildOutcome{}, false
	}
}

func (p *buildPool) worker(chunkSize float32) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			out := p.run(job, chunkSize)
			select {
			case p.results <- out:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// run executes one build, converting a panic into a failed outcome so one
// bad chunk cannot take the pool down.
func (p *buildPool) run(job buildJob, chunkSize float32) (out buildOutcome) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("chunk build panicked",
				zap.Int("cx", job.coord.X), zap.Int("cz", job.coord.Z), zap.Any("panic", r))
			out = buildOutcome{coord: job.coord, gen: job.gen, failed: true}
		}
	}()
	result := buildChunk(p.sampler, job.coord, job.res, chunkSize, job.collider)
	return buildOutcome{result: result, coord: job.coord, gen: job.gen}
}

// shutdown stops the workers. Queued jobs may be abandoned.
func (p *buildPool) shutdown() {
	p.cancel()
	p.wg.Wait()
}
