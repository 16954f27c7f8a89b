package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	"github.com/matzehuels/graphvis/pkg/cache"
	errs "github.com/matzehuels/graphvis/pkg/errors"
)

const sample = `A -> B, C, D
B -> A, C, D
C -> A, B
D -> A, B`

// memCache is an in-memory cache.Cache that counts reads and writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png", "dot", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateEngine(t *testing.T) {
	tests := []struct {
		engine  string
		wantErr bool
	}{
		{"force", false},
		{"graphviz", false},
		{"", false},
		{"tower", true},
	}

	for _, tt := range tests {
		err := ValidateEngine(tt.engine)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEngine(%q) error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", opts.Iterations, DefaultIterations)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Engine != "force" {
		t.Errorf("Engine = %q, want force", opts.Engine)
	}
	if opts.Layout.Repulsion == 0 {
		t.Error("layout settings should be defaulted")
	}
}

func TestOptionsNormalizeFormats(t *testing.T) {
	opts := Options{Formats: []string{"SVG", "png", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(opts.Formats, ",") != "svg,png" {
		t.Errorf("Formats = %v, want [svg png]", opts.Formats)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"engine", Options{Engine: "circo"}, errs.ErrCodeInvalidEngine},
		{"size", Options{Width: 20000}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildParseError(t *testing.T) {
	_, err := Build(context.Background(), "A -> B\nbroken", Options{})
	if !errs.Is(err, errs.ErrCodeParse) {
		t.Fatalf("error = %v, want PARSE_ERROR", err)
	}
	var perr *adjlist.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Errorf("parse error line = %v, want 2", perr)
	}
}

func TestBuildTooLarge(t *testing.T) {
	text := strings.Repeat("A -> B\n", errs.MaxTextBytes/7+1)
	if _, err := Build(context.Background(), text, Options{}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestLayoutSettles(t *testing.T) {
	res, err := Build(context.Background(), sample, Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	n, err := Layout(context.Background(), res.Graph, Options{Iterations: 2000})
	if err != nil {
		t.Fatal(err)
	}
	if n <= 0 || n > 2000 {
		t.Errorf("iterations = %d, want within (0, 2000]", n)
	}
}

func TestLayoutCanceled(t *testing.T) {
	res, err := Build(context.Background(), sample, Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Layout(ctx, res.Graph, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(ctx, sample+"\nX -> Y", Options{Formats: []string{"svg", "json", "dot"}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.NodeCount != 6 {
		t.Errorf("NodeCount = %d, want 6", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 10 {
		t.Errorf("EdgeCount = %d, want 10", result.Stats.EdgeCount)
	}
	if len(result.Dropped) != 1 || result.Dropped[0].String() != "X->Y" {
		t.Errorf("Dropped = %v, want [X->Y]", result.Dropped)
	}
	for _, f := range []string{"svg", "json", "dot"} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
	if result.TextHash == "" || result.LayoutHash == "" {
		t.Error("hashes should be set")
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	runner := NewRunner(mc, nil, nil)
	opts := Options{Formats: []string{"svg"}}

	first, err := runner.Execute(ctx, sample, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}
	if mc.sets != 2 {
		t.Errorf("cache sets = %d, want 2 (layout + svg)", mc.sets)
	}

	second, err := runner.Execute(ctx, sample, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", second.CacheInfo)
	}
	if second.Stats.Iterations != 0 {
		t.Errorf("cached layout iterations = %d, want 0", second.Stats.Iterations)
	}
	if string(first.Artifacts["svg"]) != string(second.Artifacts["svg"]) {
		t.Error("cached artifact differs from rendered one")
	}

	// A different seed changes the layout key.
	third, err := runner.Execute(ctx, sample, Options{Formats: []string{"svg"}, Seed: 99})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("different seed should miss the layout cache")
	}

	// Refresh skips reads.
	fourth, err := runner.Execute(ctx, sample, Options{Formats: []string{"svg"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LayoutHit || fourth.CacheInfo.RenderHit {
		t.Error("refresh should bypass cache reads")
	}
}

func TestRunnerDeterministic(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	a, err := runner.Execute(ctx, sample, Options{Formats: []string{"json"}, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(ctx, sample, Options{Formats: []string{"json"}, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Artifacts["json"]) != string(b.Artifacts["json"]) {
		t.Error("same seed should produce identical layouts")
	}
}

func TestRenderFromData(t *testing.T) {
	ctx := context.Background()
	res, err := NewRunner(nil, nil, nil).Execute(ctx, sample, Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	out, err := RenderFromData(ctx, res.Artifacts["json"], Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatalf("RenderFromData() error = %v", err)
	}
	if !strings.Contains(string(out["dot"]), `"A" -- "B"`) {
		t.Error("dot output missing edge A--B")
	}

	if _, err := RenderFromData(ctx, []byte("not json"), Options{}); err == nil {
		t.Error("invalid data should fail")
	}
}
