package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries
// to a charm logger. The CLI registers it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetViewerHooks(h)
	SetServerHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, textBytes int) {
	h.Logger.Debug("build start", "bytes", textBytes)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, nodeCount, edgeCount, dropped int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("build failed", "err", err, "duration", d)
		return
	}
	h.Logger.Debug("build done", "nodes", nodeCount, "edges", edgeCount, "dropped", dropped, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, engine string, nodeCount int) {
	h.Logger.Debug("layout start", "engine", engine, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, engine string, iterations int, d time.Duration, err error) {
	h.Logger.Debug("layout done", "engine", engine, "iterations", iterations, "duration", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render done", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnSubmit(_ context.Context, revision string, nodeCount, edgeCount int, err error) {
	if err != nil {
		h.Logger.Debug("submit rejected", "err", err)
		return
	}
	h.Logger.Debug("graph replaced", "revision", revision, "nodes", nodeCount, "edges", edgeCount)
}

func (h *LogHooks) OnDrag(_ context.Context, node string, active bool) {
	h.Logger.Debug("drag", "node", node, "active", active)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}
