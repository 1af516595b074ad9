// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	HighDPI    bool       `yaml:"high_dpi"`
	ClearColor [4]float32 `yaml:"clear_color,flow"`
	LightDir   [3]float32 `yaml:"light_direction,flow"` // toward the light, need not be unit length
	ShowBounds bool       `yaml:"show_bounds"`
	Screenshot string     `yaml:"screenshot_dir"`
}

// AssetsConfig lists where models and textures are read from. Later sources
// shadow earlier ones: directories first, then S3 when a bucket is set.
type AssetsConfig struct {
	Dirs []string `yaml:"dirs"`
	S3   S3Config `yaml:"s3"`
}

// S3Config holds an optional S3 asset source.
type S3Config struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// Enabled reports whether an S3 source is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// TerrainConfig holds the ground model and height field settings.
type TerrainConfig struct {
	Model         string `yaml:"model"`
	Texture       string `yaml:"texture"`
	SampleFactor  int    `yaml:"sample_factor"`
	MaxDenseCells int    `yaml:"max_dense_cells"`
	SmoothNormals bool   `yaml:"smooth_normals"`
}

// SceneConfig holds follower placement settings.
type SceneConfig struct {
	StepRate       int     `yaml:"step_rate"`
	SpringFreq     float64 `yaml:"spring_frequency"`
	SpringDamping  float64 `yaml:"spring_damping"`
	FollowerSize   float32 `yaml:"follower_size"`
	FollowerOffset float32 `yaml:"follower_offset"`
	MoveSpeed      float32 `yaml:"move_speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			HighDPI:    true,
			ClearColor: [4]float32{0.45, 0.6, 0.8, 1},
			LightDir:   [3]float32{0.3, 1, 0.5},
			ShowBounds: false,
			Screenshot: "screenshots",
		},
		Assets: AssetsConfig{
			Dirs: []string{"assets"},
		},
		Terrain: TerrainConfig{
			Model:         "models/terrain.obj",
			Texture:       "textures/terrain.png",
			SampleFactor:  10,
			MaxDenseCells: 2048 * 2048,
			SmoothNormals: true,
		},
		Scene: SceneConfig{
			StepRate:       60,
			SpringFreq:     6,
			SpringDamping:  1,
			FollowerSize:   1,
			FollowerOffset: 0,
			MoveSpeed:      5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would make the viewer fail later.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Terrain.SampleFactor <= 0 {
		errs = append(errs, fmt.Errorf("terrain: sample_factor must be positive, got %d", c.Terrain.SampleFactor))
	}
	if c.Terrain.MaxDenseCells < 0 {
		errs = append(errs, fmt.Errorf("terrain: max_dense_cells must not be negative, got %d", c.Terrain.MaxDenseCells))
	}
	if c.Terrain.Model == "" {
		errs = append(errs, errors.New("terrain: model is required"))
	}
	if c.Scene.StepRate <= 0 {
		errs = append(errs, fmt.Errorf("scene: step_rate must be positive, got %d", c.Scene.StepRate))
	}
	if len(c.Assets.Dirs) == 0 && !c.Assets.S3.Enabled() {
		errs = append(errs, errors.New("assets: no source configured"))
	}
	return errors.Join(errs...)
}
