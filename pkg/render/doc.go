// Package render draws graphs as static images and documents.
//
// # Formats
//
//   - svg: drawn with [github.com/ajstarks/svgo]
//   - png: rasterized with [git.sr.ht/~sbinet/gg] and the basicfont face
//   - dot: Graphviz source, one undirected edge per reciprocal pair
//   - json: the node-link document from [graph.Marshal]
//
// # Engines
//
// [EngineForce] fits the graph's current coordinates into the output frame,
// so a render matches what the interactive viewer shows once the simulation
// has settled. [EngineGraphviz] hands the DOT source to neato via
// [github.com/goccy/go-graphviz] and lets it choose positions:
//
//	svg, err := render.Render(ctx, g, render.FormatSVG, render.Options{
//	    Engine: render.EngineGraphviz,
//	})
//
// Node sizes are pixel radii and do not scale with the frame. Edges are drawn
// once per unordered pair even though both directions are stored.
package render
