package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Document is the node-link wire format for graphs. It is used for JSON
// export, API responses and the artifact cache.
//
//	{
//	  "nodes": [{"id": "A", "x": 1.5, "y": 2, "size": 10, "color": "#3fa7d6"}],
//	  "edges": [{"source": "A", "target": "B"}]
//	}
type Document struct {
	Nodes []NodeJSON `json:"nodes"`
	Edges []EdgeJSON `json:"edges"`
}

// NodeJSON is the serialized form of a [Node]. Highlighted is runtime drag
// state and is not serialized.
type NodeJSON struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
}

// EdgeJSON is the serialized form of an [Edge].
type EdgeJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ToDocument converts a graph to its wire format, keeping node insertion
// order.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]NodeJSON, 0, g.NodeCount()),
		Edges: make([]EdgeJSON, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		label := n.Label
		if label == n.ID {
			label = ""
		}
		doc.Nodes = append(doc.Nodes, NodeJSON{
			ID:    n.ID,
			Label: label,
			X:     n.X,
			Y:     n.Y,
			Size:  n.Size,
			Color: n.Color,
		})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, EdgeJSON{Source: e.Source, Target: e.Target})
	}
	return doc
}

// FromDocument builds a graph from its wire format.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	for _, n := range doc.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		node := Node{ID: n.ID, Label: label, X: n.X, Y: n.Y, Size: n.Size, Color: n.Color}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("add node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.Source, e.Target); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// Marshal encodes a graph as indented JSON.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a graph as indented JSON to w.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Unmarshal decodes JSON produced by [Marshal].
func Unmarshal(data []byte) (*Graph, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a JSON graph from r.
func Read(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// ReadFile reads a JSON graph from a file.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
