package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keagan/asciivid/internal/ascii"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Palette overrides the built-in character ramp when non-empty
	Palette string `yaml:"palette"`

	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Export ExportConfig `yaml:"export"`
	Play   PlayConfig   `yaml:"play"`
	Serve  ServeConfig  `yaml:"serve"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	Threads    int    `yaml:"threads"`
}

// ExportConfig drives the batch exporter
type ExportConfig struct {
	Output        string       `yaml:"output"`
	TargetFPS     float64      `yaml:"target_fps"`
	ProgressEvery int          `yaml:"progress_every"`
	Render        RenderConfig `yaml:"render"`
	Bounds        BoundsConfig `yaml:"bounds"`
}

// PlayConfig drives the live terminal player
type PlayConfig struct {
	TargetFPS  float64       `yaml:"target_fps"`
	StartDelay time.Duration `yaml:"start_delay"`
	Render     RenderConfig  `yaml:"render"`
	// MaxWidth and MaxHeight cap the terminal-derived bounds
	MaxWidth        int     `yaml:"max_width"`
	MaxHeight       int     `yaml:"max_height"`
	MinWidth        int     `yaml:"min_width"`
	MinHeight       int     `yaml:"min_height"`
	CharAspect      float64 `yaml:"char_aspect"`
	FallbackColumns int     `yaml:"fallback_columns"`
	FallbackRows    int     `yaml:"fallback_rows"`
}

type ServeConfig struct {
	Port            int    `yaml:"port"`
	Dir             string `yaml:"dir"`
	Index           string `yaml:"index"`
	FrameSet        string `yaml:"frameset"`
	Video           string `yaml:"video"`
	OpenBrowser     bool   `yaml:"open_browser"`
	MaxPortAttempts int    `yaml:"max_port_attempts"`
	AccessLog       string `yaml:"access_log"`
}

type RenderConfig struct {
	Contrast   float64 `yaml:"contrast"`
	Brightness float64 `yaml:"brightness"`
}

type BoundsConfig struct {
	MinWidth   int     `yaml:"min_width"`
	MinHeight  int     `yaml:"min_height"`
	MaxWidth   int     `yaml:"max_width"`
	MaxHeight  int     `yaml:"max_height"`
	CharAspect float64 `yaml:"char_aspect"`
}

// Params converts the render section into renderer parameters
func (r RenderConfig) Params() ascii.Params {
	return ascii.Params{Contrast: r.Contrast, Brightness: r.Brightness}
}

// Bounds converts the bounds section into a sizing box
func (b BoundsConfig) Bounds() ascii.Bounds {
	return ascii.Bounds{
		MinWidth:   b.MinWidth,
		MinHeight:  b.MinHeight,
		MaxWidth:   b.MaxWidth,
		MaxHeight:  b.MaxHeight,
		CharAspect: b.CharAspect,
	}
}

// LiveBounds derives the player's sizing box from a terminal size
func (p PlayConfig) LiveBounds(columns, rows int) ascii.Bounds {
	b := ascii.LiveBounds(columns, rows)
	if p.MaxWidth > 0 && p.MaxWidth < b.MaxWidth {
		b.MaxWidth = p.MaxWidth
	}
	if p.MaxHeight > 0 && p.MaxHeight < b.MaxHeight {
		b.MaxHeight = p.MaxHeight
	}
	if p.MinWidth > 0 {
		b.MinWidth = p.MinWidth
	}
	if p.MinHeight > 0 {
		b.MinHeight = p.MinHeight
	}
	if p.CharAspect > 0 {
		b.CharAspect = p.CharAspect
	}
	return b
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Default returns a fresh copy of the built-in configuration
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	export := ascii.ExportPreset
	live := ascii.LivePreset
	eb := ascii.ExportBounds

	return &Config{
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			Threads:    0,
		},
		Export: ExportConfig{
			Output:        "frames.json",
			TargetFPS:     24,
			ProgressEvery: 100,
			Render:        RenderConfig{Contrast: export.Contrast, Brightness: export.Brightness},
			Bounds: BoundsConfig{
				MinWidth:   eb.MinWidth,
				MinHeight:  eb.MinHeight,
				MaxWidth:   eb.MaxWidth,
				MaxHeight:  eb.MaxHeight,
				CharAspect: eb.CharAspect,
			},
		},
		Play: PlayConfig{
			TargetFPS:       30,
			StartDelay:      2 * time.Second,
			Render:          RenderConfig{Contrast: live.Contrast, Brightness: live.Brightness},
			MaxWidth:        ascii.LiveMaxWidth,
			MaxHeight:       ascii.LiveMaxHeight,
			MinWidth:        ascii.LiveMinWidth,
			MinHeight:       ascii.LiveMinHeight,
			CharAspect:      ascii.LiveCharAspect,
			FallbackColumns: 120,
			FallbackRows:    40,
		},
		Serve: ServeConfig{
			Port:            8000,
			Dir:             ".",
			Index:           "index.html",
			FrameSet:        "frames.json",
			Video:           "BadApple.mp4",
			OpenBrowser:     true,
			MaxPortAttempts: 50,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./asciivid.yaml",
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".asciivid", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
