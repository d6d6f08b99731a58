// Command soak drives the streaming engine headlessly: the observer flies
// an outward spiral while the control loop runs at display rate, logging
// registry sizes and timing buckets. Useful for leak-hunting and for
// profiling the streamer without a GPU.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"go.uber.org/zap"

	"terrastream/internal/config"
	"terrastream/internal/logger"
	"terrastream/internal/profiling"
	"terrastream/internal/terrain"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	speed := flag.Float64("speed", 80.0, "observer speed in world units per second")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	manager, err := terrain.NewManager(cfg.Terrain, log)
	if err != nil {
		log.Fatal("manager init failed", zap.Error(err))
	}
	closer.Bind(func() {
		manager.Close()
		log.Info("soak stopped")
	})

	go soakLoop(manager, cfg, *speed, log)

	closer.Hold()
}

func soakLoop(manager *terrain.Manager, cfg *config.Config, speed float64, log *zap.Logger) {
	const cycle = 16 * time.Millisecond

	ticker := time.NewTicker(cycle)
	defer ticker.Stop()

	statsEvery := 2 * time.Second
	lastStats := time.Now()

	var elapsed float64
	start := time.Now()

	log.Info("soak started",
		zap.String("mode", cfg.Terrain.Mode),
		zap.Int("view_radius", cfg.Terrain.ViewRadiusChunks),
		zap.Float64("speed", speed))

	for range ticker.C {
		elapsed = time.Since(start).Seconds()
		observer := spiralPosition(elapsed, speed, float64(cfg.Terrain.ChunkSize))

		profiling.ResetCycle()
		manager.Update(observer)

		if time.Since(lastStats) >= statsEvery {
			lastStats = time.Now()
			log.Info("soak stats",
				zap.Int("loaded", manager.Store().Len()),
				zap.Int("pending", manager.PendingCount()),
				zap.Float32("x", observer.X()),
				zap.Float32("z", observer.Z()),
				zap.Duration("cycle_cpu", profiling.SumWithPrefix("terrain.")),
				zap.String("timings", profiling.TopN(4)))
		}
	}
}

// spiralPosition walks an Archimedean spiral outward from the origin so the
// streamer keeps crossing fresh chunks instead of orbiting loaded ones.
func spiralPosition(elapsed, speed, chunkSize float64) mgl32.Vec3 {
	arc := elapsed * speed
	// r ~ b*theta; arc length of an Archimedean spiral is ~ b*theta^2/2.
	b := chunkSize / (2 * math.Pi)
	theta := math.Sqrt(2 * arc / b)
	r := b * theta
	return mgl32.Vec3{
		float32(r * math.Cos(theta)),
		40,
		float32(r * math.Sin(theta)),
	}
}
