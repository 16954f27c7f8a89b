package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/observability"
	"github.com/matzehuels/graphvis/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, g, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	ropts := opts.RenderOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, name := range opts.Formats {
		format, err := render.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		data, err := render.Render(ctx, g, format, ropts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[string(format)] = data
	}
	return artifacts, nil
}

// RenderFromData renders a serialized node-link document, such as one
// written by the json format or fetched from the viewer's export.
func RenderFromData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	g, err := graph.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	return Render(ctx, g, opts)
}
