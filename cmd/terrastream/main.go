package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"terrastream/internal/config"
	"terrastream/internal/graphics"
	"terrastream/internal/logger"
	"terrastream/internal/terrain"
)

func init() { runtime.LockOSThread() }

const eyeHeight = 1.8

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
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

	if err := run(cfg, log); err != nil {
		log.Fatal("viewer failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Viewer.Width, cfg.Viewer.Height, "terrastream", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	if cfg.Viewer.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	renderer, err := graphics.NewTerrainRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer renderer.Cleanup()

	waterExtent := cfg.Terrain.ChunkSize * float32(cfg.Terrain.ViewRadiusChunks+1)
	renderer.EnableWater(cfg.Viewer.WaterLevel, waterExtent)

	manager, err := terrain.NewManager(cfg.Terrain, log)
	if err != nil {
		return err
	}
	defer manager.Close()

	// GL uploads happen here, on the control goroutine, inside Update.
	manager.OnChunkLoaded = func(rec *terrain.ChunkRecord) {
		renderer.Upload(rec)
	}
	manager.OnChunkEvicted = func(rec *terrain.ChunkRecord) {
		renderer.Remove(rec.Coord)
	}

	camera := graphics.NewCamera(cfg.Viewer.Width, cfg.Viewer.Height)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	window.SetCursorPosCallback(camera.HandleMouseMovement)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	log.Info("viewer started",
		zap.String("mode", cfg.Terrain.Mode),
		zap.Int("view_radius", cfg.Terrain.ViewRadiusChunks))

	lastTime := time.Now()
	lastTitle := lastTime
	frames := 0

	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		camera.ProcessKeyboard(window, dt)

		if cfg.Viewer.GroundClamp {
			if ground, ok := manager.GroundHeight(camera.Position.X(), camera.Position.Z()); ok {
				floor := ground + eyeHeight
				if camera.Position.Y() < floor {
					camera.Position[1] = floor
				}
			}
		}

		manager.Update(camera.Position)

		gl.ClearColor(0.53, 0.81, 0.92, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		minH, maxH, ok := manager.Material().Bounds()
		if !ok {
			minH, maxH = 0, 1
		}
		renderer.Draw(camera.GetViewMatrix(), camera.GetProjectionMatrix(), minH, maxH)

		window.SwapBuffers()
		glfw.PollEvents()

		frames++
		if now.Sub(lastTitle) >= time.Second {
			window.SetTitle(fmt.Sprintf("terrastream | %d fps | %d chunks | %d pending",
				frames, manager.Store().Len(), manager.PendingCount()))
			frames = 0
			lastTitle = now
		}
	}
	return nil
}
