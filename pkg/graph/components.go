package graph

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components returns the connected components of g. Each component lists its
// node IDs sorted; components are ordered by size (largest first), then by
// their first ID. Isolated nodes form singleton components.
func Components(g *Graph) [][]string {
	ug, ids := toUndirected(g)

	var out [][]string
	for _, cc := range topo.ConnectedComponents(ug) {
		comp := make([]string, len(cc))
		for i, n := range cc {
			comp[i] = ids[n.ID()]
		}
		slices.Sort(comp)
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		if a[0] < b[0] {
			return -1
		}
		if a[0] > b[0] {
			return 1
		}
		return 0
	})
	return out
}

// toUndirected mirrors g into a gonum simple graph. Self-loops and parallel
// edges collapse, which does not affect connectivity.
func toUndirected(g *Graph) (*simple.UndirectedGraph, map[int64]string) {
	ug := simple.NewUndirectedGraph()
	index := make(map[string]int64, len(g.order))
	ids := make(map[int64]string, len(g.order))
	for i, id := range g.order {
		n := simple.Node(int64(i))
		ug.AddNode(n)
		index[id] = n.ID()
		ids[n.ID()] = id
	}
	for _, e := range g.edges {
		if e.Source == e.Target {
			continue
		}
		from, to := ug.Node(index[e.Source]), ug.Node(index[e.Target])
		if ug.HasEdgeBetween(from.ID(), to.ID()) {
			continue
		}
		ug.SetEdge(simple.Edge{F: from, T: to})
	}
	return ug, ids
}
