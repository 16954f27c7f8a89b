package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/layout"
	"github.com/matzehuels/graphvis/pkg/observability"
	"github.com/matzehuels/graphvis/pkg/render"
)

// layoutChunk is the number of steps run between context checks.
const layoutChunk = 50

// Layout runs the force simulation on g in place until it settles or
// opts.Iterations steps have run, and returns the steps performed.
//
// The simulation always runs, even for the graphviz engine, so that json
// and dot output carry settled coordinates.
func Layout(ctx context.Context, g *graph.Graph, opts Options) (int, error) {
	opts.SetLayoutDefaults()

	hooks := observability.Pipeline()
	engine := string(render.EngineForce)
	hooks.OnLayoutStart(ctx, engine, g.NodeCount())
	start := time.Now()

	sim := layout.NewSimulation(g, opts.Layout)
	total := 0
	for total < opts.Iterations {
		if err := ctx.Err(); err != nil {
			hooks.OnLayoutComplete(ctx, engine, total, time.Since(start), err)
			return total, err
		}
		n := min(layoutChunk, opts.Iterations-total)
		ran := sim.RunUntilStable(n, opts.Epsilon)
		total += ran
		if ran < n {
			break
		}
	}

	hooks.OnLayoutComplete(ctx, engine, total, time.Since(start), nil)
	return total, nil
}
