// Package config handles engine configuration loading and validation.
package config

import (
	"fmt"
)

// Terrain source modes.
const (
	ModeHeightmap = "heightmap"
	ModeNoise     = "noise"
)

// Config holds all settings for the terrain engine and its binaries.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig is an immutable snapshot of the streaming engine's
// parameters. Replacing it wholesale through Manager.ApplyConfig forces a
// full invalidation when RequiresRebuild reports true.
type TerrainConfig struct {
	Mode string `yaml:"mode"` // "heightmap" or "noise"

	ChunkSize        float32 `yaml:"chunk_size"` // world units per chunk edge
	Resolution       int     `yaml:"resolution"` // vertices per edge at full detail
	ViewRadiusChunks int     `yaml:"view_radius_chunks"`
	MaxSpawnPerFrame int     `yaml:"max_spawn_per_frame"`

	// LOD tiers. Chunks farther than FarDistance get FarResolution and no
	// collider; between Mid and Far they get MidResolution.
	LODMidDistance   float32 `yaml:"lod_mid_distance"`
	LODFarDistance   float32 `yaml:"lod_far_distance"`
	LODMidResolution int     `yaml:"lod_mid_resolution"`
	LODFarResolution int     `yaml:"lod_far_resolution"`

	// Post-scale applied on top of either source.
	Amplitude float32 `yaml:"amplitude"`

	Heightmap HeightmapConfig `yaml:"heightmap"`
	Noise     NoiseConfig     `yaml:"noise"`
}

// HeightmapConfig describes a raster height source. The image is read once
// at sampler construction; a missing or corrupt file is fatal.
type HeightmapConfig struct {
	Path      string  `yaml:"path"`
	WorldSize float32 `yaml:"world_size"` // square extent in world units, centered at origin
	MaxHeight float32 `yaml:"max_height"` // elevation of a full-intensity sample
}

// NoiseConfig describes the procedural height source.
type NoiseConfig struct {
	Seed            int64   `yaml:"seed"`
	BaseFrequency   float64 `yaml:"base_frequency"`
	DetailFrequency float64 `yaml:"detail_frequency"`
	DetailOctaves   int     `yaml:"detail_octaves"`
	Lacunarity      float64 `yaml:"lacunarity"`
	Gain            float64 `yaml:"gain"`
	WarpFrequency   float64 `yaml:"warp_frequency"`
	WarpAmplitude   float32 `yaml:"warp_amplitude"`
	Amplitude       float32 `yaml:"amplitude"` // vertical scale in world units
}

// ViewerConfig holds display settings for the interactive viewer.
type ViewerConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	VSync       bool    `yaml:"vsync"`
	WaterLevel  float32 `yaml:"water_level"`
	GroundClamp bool    `yaml:"ground_clamp"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock open-world parameters.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Mode:             ModeHeightmap,
			ChunkSize:        160.0,
			Resolution:       96,
			ViewRadiusChunks: 6,
			MaxSpawnPerFrame: 16,
			LODMidDistance:   160.0 * 3.2,
			LODFarDistance:   160.0 * 5.0,
			LODMidResolution: 48,
			LODFarResolution: 24,
			Amplitude:        1.0,
			Heightmap: HeightmapConfig{
				Path:      "assets/heightmaps/level1.png",
				WorldSize: 2000.0,
				MaxHeight: 200.0,
			},
			Noise: NoiseConfig{
				Seed:            1337,
				BaseFrequency:   0.010,
				DetailFrequency: 0.030,
				DetailOctaves:   3,
				Lacunarity:      2.0,
				Gain:            0.5,
				WarpFrequency:   0.020,
				WarpAmplitude:   3.0,
				Amplitude:       24.0,
			},
		},
		Viewer: ViewerConfig{
			Width:       1280,
			Height:      720,
			VSync:       true,
			WaterLevel:  25.0,
			GroundClamp: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks internal consistency of the terrain parameters.
func (t *TerrainConfig) Validate() error {
	if t.Mode != ModeHeightmap && t.Mode != ModeNoise {
		return fmt.Errorf("terrain mode %q: must be %q or %q", t.Mode, ModeHeightmap, ModeNoise)
	}
	if t.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size %v: must be positive", t.ChunkSize)
	}
	if t.ViewRadiusChunks < 0 {
		return fmt.Errorf("view_radius_chunks %d: must be non-negative", t.ViewRadiusChunks)
	}
	if t.MaxSpawnPerFrame < 1 {
		return fmt.Errorf("max_spawn_per_frame %d: must be at least 1", t.MaxSpawnPerFrame)
	}
	if t.LODFarResolution <= 0 {
		return fmt.Errorf("lod_far_resolution %d: must be positive", t.LODFarResolution)
	}
	if !(t.Resolution > t.LODMidResolution && t.LODMidResolution > t.LODFarResolution) {
		return fmt.Errorf("resolutions %d > %d > %d violated", t.Resolution, t.LODMidResolution, t.LODFarResolution)
	}
	if t.LODMidDistance < 0 || t.LODFarDistance <= t.LODMidDistance {
		return fmt.Errorf("lod distances mid=%v far=%v: need far > mid >= 0", t.LODMidDistance, t.LODFarDistance)
	}
	if t.Mode == ModeHeightmap {
		if t.Heightmap.Path == "" {
			return fmt.Errorf("heightmap path is empty")
		}
		if t.Heightmap.WorldSize <= 0 {
			return fmt.Errorf("heightmap world_size %v: must be positive", t.Heightmap.WorldSize)
		}
	}
	return nil
}

// RequiresRebuild reports whether switching from t to next must tear down
// all loaded chunks and reconstruct the sampler and workers. ChunkSize is
// a rebuild key because the pool meshes at the size it was built with;
// mixing sizes would leave new meshes out of step with their origins.
func (t *TerrainConfig) RequiresRebuild(next *TerrainConfig) bool {
	return t.Mode != next.Mode ||
		t.ChunkSize != next.ChunkSize ||
		t.Amplitude != next.Amplitude ||
		t.ViewRadiusChunks != next.ViewRadiusChunks ||
		t.Heightmap.Path != next.Heightmap.Path ||
		t.Heightmap.WorldSize != next.Heightmap.WorldSize ||
		t.Heightmap.MaxHeight != next.Heightmap.MaxHeight
}
