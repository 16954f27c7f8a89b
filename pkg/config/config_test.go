package config

import (
	"os"
	"path/filepath"
	"testing"

	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Layout.Settings != layout.DefaultSettings() {
		t.Errorf("layout settings = %+v", cfg.Layout.Settings)
	}
	if cfg.Server.Sample != SampleText {
		t.Errorf("sample = %q", cfg.Server.Sample)
	}
}

func TestLoadMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Render.Width != Default().Render.Width {
		t.Error("missing default file should yield defaults")
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[layout]
repulsion = 0.5
seed = 7

[render]
width = 1200
engine = "graphviz"

[server]
addr = ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Repulsion != 0.5 || cfg.Layout.Seed != 7 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Attraction != layout.DefaultSettings().Attraction {
		t.Error("unset fields should keep defaults")
	}
	if cfg.Render.Width != 1200 || cfg.Render.Height != Default().Render.Height {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.Engine != "graphviz" || cfg.Server.Addr != ":9000" {
		t.Errorf("engine = %q, addr = %q", cfg.Render.Engine, cfg.Server.Addr)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"syntax", "[layout\n", errs.ErrCodeInvalidInput},
		{"engine", "[render]\nengine = \"circo\"", errs.ErrCodeInvalidEngine},
		{"width", "[render]\nwidth = -1", errs.ErrCodeInvalidInput},
		{"inertia", "[layout]\ninertia = 1.5", errs.ErrCodeInvalidInput},
		{"redis", "[cache]\nredis_url = \"http://x\"", errs.ErrCodeInvalidInput},
		{"sample", "[server]\nsample = \"no arrow\"", errs.ErrCodeParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Server.Addr = ":1234"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Server.Addr != ":1234" || got.Layout.Settings != cfg.Layout.Settings {
		t.Errorf("round trip = %+v", got)
	}
}
