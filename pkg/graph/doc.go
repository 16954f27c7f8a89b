// Package graph provides the mutable node/edge model that graphvis builds
// from an adjacency list, plus its JSON wire format.
//
// # Model
//
// A [Graph] holds [Node] values keyed by their user-supplied label and a list
// of [Edge] values. Nodes carry display attributes (position, size, color,
// label) and a transient Highlighted flag used while a node is dragged.
// Edges always reference existing nodes:
//
//	g := graph.New()
//	_ = g.AddNode(graph.Node{ID: "A"})
//	_ = g.AddNode(graph.Node{ID: "B"})
//	_ = g.AddEdge("A", "B")
//
// Edges are drawn undirected. [Graph.Pairs] returns the distinct unordered
// pairs, which is the form tests and statistics compare.
//
// # Serialization
//
// [Marshal] and [Unmarshal] use a node-link JSON document:
//
//	{
//	  "nodes": [{"id": "A", "x": 1.2, "y": 3.4, "size": 10, "color": "#3fa7d6"}],
//	  "edges": [{"source": "A", "target": "B"}]
//	}
//
// # Analysis
//
// [Components] returns connected components, computed with gonum.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. The interactive viewer owns its
// graph from a single goroutine.
package graph
