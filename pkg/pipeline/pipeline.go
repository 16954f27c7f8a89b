// Package pipeline provides the static render pipeline for graphvis.
//
// This package implements the complete build → layout → render pipeline used
// by the CLI and the server's export endpoint. By centralizing this logic,
// both entry points produce identical artifacts for identical inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Parse the adjacency list and apply the reciprocity filter
//  2. Layout: Run the force simulation until it settles
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// The layout and render stages are cached by content hash, so repeating a
// render with the same text, seed and settings does no simulation work.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, text, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	"github.com/matzehuels/graphvis/pkg/cache"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/layout"
	"github.com/matzehuels/graphvis/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultIterations caps the force simulation for a static render.
	DefaultIterations = 500

	// DefaultEpsilon is the per-step displacement below which the layout is
	// considered settled.
	DefaultEpsilon = 0.01

	// DefaultSeed makes CLI renders reproducible unless a seed is given.
	DefaultSeed = uint64(42)

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = render.DefaultHeight
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Seed uint64 `json:"seed,omitempty"`

	// Layout options
	Iterations int             `json:"iterations,omitempty"`
	Epsilon    float64         `json:"epsilon,omitempty"`
	Layout     layout.Settings `json:"layout"`

	// Render options
	Engine  string   `json:"engine,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the laid-out graph.
	Graph *graph.Graph

	// Relations lists every declared relation; Dropped the one-way ones.
	Relations []adjlist.Relation
	Dropped   []adjlist.Relation

	// TextHash is the content hash of the input text.
	TextHash string

	// LayoutHash is the content hash of the laid-out graph.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Dropped    int
	Iterations int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the settled layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(engine string) error {
	_, err := render.ParseEngine(engine)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	o.Layout = o.Layout.WithDefaults()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	if o.Engine == "" {
		o.Engine = string(render.EngineForce)
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
}

// ValidateForRender validates render options after defaults are applied.
// Format names are normalized and deduplicated in place.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		format, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		if !slices.Contains(formats, string(format)) {
			formats = append(formats, string(format))
		}
	}
	o.Formats = formats
	return errs.ValidateDimensions(o.Width, o.Height)
}

// RenderOptions converts o into renderer options.
func (o *Options) RenderOptions() render.Options {
	engine, _ := render.ParseEngine(o.Engine)
	return render.Options{Width: o.Width, Height: o.Height, Engine: engine}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Engine:     string(render.EngineForce),
		Seed:       o.Seed,
		Iterations: o.Iterations,
		Epsilon:    o.Epsilon,
		Attraction: o.Layout.Attraction,
		Repulsion:  o.Layout.Repulsion,
		Gravity:    o.Layout.Gravity,
		Inertia:    o.Layout.Inertia,
		MaxMove:    o.Layout.MaxMove,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Engine: o.Engine,
		Width:  o.Width,
		Height: o.Height,
	}
}
