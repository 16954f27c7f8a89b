package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/observability"
)

// Build validates text and builds its graph with seeded node attributes.
// Malformed lines are reported as PARSE_ERROR wrapping the
// *adjlist.ParseError, so callers can still recover the line number.
func Build(ctx context.Context, text string, opts Options) (*adjlist.Result, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(text))
	start := time.Now()

	res, err := build(text, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, res.Graph.NodeCount(), res.Graph.EdgeCount(), len(res.Dropped), time.Since(start), nil)
	return res, nil
}

func build(text string, opts Options) (*adjlist.Result, error) {
	if err := errs.ValidateText(text); err != nil {
		return nil, err
	}
	res, err := adjlist.Build(text, adjlist.Options{Seed: opts.Seed})
	if err != nil {
		var perr *adjlist.ParseError
		if errors.As(err, &perr) {
			return nil, errs.Wrap(errs.ErrCodeParse, perr, "invalid adjacency list")
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "build graph")
	}
	return res, nil
}
