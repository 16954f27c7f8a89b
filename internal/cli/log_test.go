package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphvis/pkg/observability"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	for _, tt := range []struct {
		level     log.Level
		wantDebug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	} {
		var buf bytes.Buffer
		l := newLogger(&buf, tt.level)
		l.Debug("layout step")
		if got := strings.Contains(buf.String(), "layout step"); got != tt.wantDebug {
			t.Errorf("level %v: debug written = %v, want %v", tt.level, got, tt.wantDebug)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered friends.json")

	out := buf.String()
	if !strings.Contains(out, "Rendered friends.json (") || !strings.Contains(out, "s)") {
		t.Errorf("done() = %q, want message with elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield the default logger")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext did not return the stored logger")
	}
}

func TestVerboseFlagEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(&buf, LogInfo)
	t.Cleanup(observability.Reset)

	if err := execute(t, c, "-v", "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if !strings.Contains(buf.String(), "config loaded") {
		t.Errorf("debug log missing config line: %q", buf.String())
	}
}

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
		if dir, _ := cacheDir(); dir != filepath.Join("/tmp/xdg", appName) {
			t.Errorf("cacheDir() = %q", dir)
		}
	})
	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		t.Setenv("HOME", "/home/ada")
		if dir, _ := cacheDir(); dir != filepath.Join("/home/ada", ".cache", appName) {
			t.Errorf("cacheDir() = %q", dir)
		}
	})
}
