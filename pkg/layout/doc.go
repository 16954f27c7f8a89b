// Package layout positions graph nodes with a force-directed simulation.
//
// Each [Simulation.Step] applies pairwise repulsion, attraction along edges
// and a weak gravity toward the origin, damps the previous velocity by the
// inertia factor and moves every node that is not fixed. Node coordinates are
// updated in place on the [graph.Graph], so callers that render between steps
// always see the latest positions.
//
//	sim := layout.NewSimulation(g, layout.DefaultSettings())
//	sim.RunUntilStable(500, 0.01)
//
// Nodes for which [Simulation.IsFixed] returns true keep their position; by
// default that is the node currently being dragged.
package layout
