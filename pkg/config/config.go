// Package config loads graphvis settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/graphvis/config.toml (falling back
// to ~/.config). A missing file is not an error: every field has a default,
// and command-line flags override whatever the file sets.
//
//	[layout]
//	repulsion = 0.2
//
//	[render]
//	width = 1200
//	height = 900
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/layout"
	"github.com/matzehuels/graphvis/pkg/render"
)

const appName = "graphvis"

// SampleText is the adjacency list the page starts with.
const SampleText = "A->B,C,D\nB->A,C,D\nC->A,B\nD->A,B"

// Config holds graphvis configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// LayoutConfig tunes the force simulation.
type LayoutConfig struct {
	layout.Settings
	Iterations int     `toml:"iterations"`
	Epsilon    float64 `toml:"epsilon"`
	Seed       uint64  `toml:"seed"`
}

// RenderConfig controls static output.
type RenderConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Engine string  `toml:"engine"` // "force" or "graphviz"
}

// ServerConfig controls the interactive server.
type ServerConfig struct {
	Addr   string `toml:"addr"`
	Sample string `toml:"sample"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	RedisURL string `toml:"redis_url"` // empty uses the file cache
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Settings:   layout.DefaultSettings(),
			Iterations: 500,
			Epsilon:    0.01,
		},
		Render: RenderConfig{
			Width:  render.DefaultWidth,
			Height: render.DefaultHeight,
			Engine: string(render.EngineForce),
		},
		Server: ServerConfig{
			Addr:   "localhost:8080",
			Sample: SampleText,
		},
	}
}

// Dir returns the graphvis config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path, or the default path when path is
// empty. A missing default file yields the defaults; a missing explicit file
// is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "read config")
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if _, err := render.ParseEngine(c.Render.Engine); err != nil {
		return err
	}
	if err := errs.ValidateDimensions(c.Render.Width, c.Render.Height); err != nil {
		return err
	}
	if c.Layout.Inertia < 0 || c.Layout.Inertia >= 1 {
		return errs.New(errs.ErrCodeInvalidInput, "layout.inertia must be in [0, 1), got %v", c.Layout.Inertia)
	}
	if c.Cache.RedisURL != "" {
		if err := errs.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	}
	if _, err := adjlist.Parse(c.Server.Sample); err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "server.sample")
	}
	return nil
}

// Save writes the config to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
