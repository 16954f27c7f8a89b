package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs are the user-supplied labels and must
	// be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownNode is returned by the attribute setters when the node does
	// not exist.
	ErrUnknownNode = errors.New("unknown node")
)

// Node is a vertex with its display attributes.
//
// X and Y are graph-space coordinates, Size is the display radius and Color a
// hex string such as "#3fa7d6". Highlighted is set only while the node is
// being dragged; the force simulation leaves highlighted nodes in place.
type Node struct {
	ID          string
	Label       string
	X, Y        float64
	Size        float64
	Color       string
	Highlighted bool
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge connects two existing nodes. Edges are displayed as undirected, but
// the declared direction is kept so that both directions of a reciprocal
// relation can be stored independently.
type Edge struct {
	Source string
	Target string
}

// Pair returns the canonical unordered form of the edge.
func (e Edge) Pair() Pair { return NewPair(e.Source, e.Target) }

// Pair is an unordered node pair with A <= B.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPair orders u and v so that equal pairs compare equal.
func NewPair(u, v string) Pair {
	if v < u {
		u, v = v, u
	}
	return Pair{A: u, B: v}
}

// String formats the pair as "A-B".
func (p Pair) String() string { return p.A + "-" + p.B }

// Graph is a mutable collection of labelled nodes and the edges between them.
// Nodes keep their insertion order. Multiple edges between the same nodes are
// allowed.
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// use; the viewer owns it from a single goroutine.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
	adj   map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		adj:   make(map[string][]string),
	}
}

// AddNode adds a node. It returns [ErrInvalidNodeID] for an empty ID and
// [ErrDuplicateNodeID] when the ID is taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	return nil
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID. The returned pointer aliases the
// graph's storage.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	return slices.Clone(g.order)
}

// AddEdge adds an edge between two existing nodes.
func (g *Graph) AddEdge(source, target string) error {
	if _, ok := g.nodes[source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, Edge{Source: source, Target: target})
	g.adj[source] = append(g.adj[source], target)
	if source != target {
		g.adj[target] = append(g.adj[target], source)
	}
	return nil
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Pairs returns the distinct unordered node pairs connected by at least one
// edge, sorted.
func (g *Graph) Pairs() []Pair {
	seen := make(map[Pair]struct{}, len(g.edges))
	var out []Pair
	for _, e := range g.edges {
		p := e.Pair()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.SortFunc(out, comparePairs)
	return out
}

// Neighbors returns the sorted, distinct neighbors of a node.
func (g *Graph) Neighbors(id string) []string {
	out := slices.Clone(g.adj[id])
	slices.Sort(out)
	return slices.Compact(out)
}

// Degree returns the number of distinct neighbors of a node.
func (g *Graph) Degree(id string) int {
	return len(g.Neighbors(id))
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of stored edges, counting both directions of a
// reciprocal relation separately.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// SetPosition moves a node in graph space.
func (g *Graph) SetPosition(id string, x, y float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.X, n.Y = x, y
	return nil
}

// SetHighlighted sets or clears the drag highlight of a node.
func (g *Graph) SetHighlighted(id string, on bool) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Highlighted = on
	return nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.order {
		_ = c.AddNode(*g.nodes[id])
	}
	for _, e := range g.edges {
		_ = c.AddEdge(e.Source, e.Target)
	}
	return c
}

func comparePairs(a, b Pair) int {
	if a.A != b.A {
		if a.A < b.A {
			return -1
		}
		return 1
	}
	if a.B < b.B {
		return -1
	}
	if a.B > b.B {
		return 1
	}
	return 0
}
