package adjlist

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/graphvis/pkg/graph"
)

const (
	// DefaultExtent bounds the random initial coordinates to [0, DefaultExtent).
	DefaultExtent = 10.0

	// DefaultNodeSize is the display radius given to every node.
	DefaultNodeSize = 10.0
)

// Options controls the randomized attributes Build assigns to new nodes.
type Options struct {
	// Rand supplies positions and colors. When nil, a generator seeded from
	// Seed is used, or a randomly seeded one when Seed is zero.
	Rand *rand.Rand

	// Seed makes Build reproducible when Rand is nil.
	Seed uint64

	// Extent bounds initial coordinates (default DefaultExtent).
	Extent float64

	// NodeSize is the radius of every node (default DefaultNodeSize).
	NodeSize float64
}

func (o Options) withDefaults() Options {
	if o.Extent <= 0 {
		o.Extent = DefaultExtent
	}
	if o.NodeSize <= 0 {
		o.NodeSize = DefaultNodeSize
	}
	if o.Rand == nil {
		seed := o.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		o.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return o
}

// Result is the outcome of a successful Build.
type Result struct {
	Graph *graph.Graph

	// Relations lists every declared relation in declaration order.
	Relations []Relation

	// Dropped lists the one-way relations the reciprocity filter removed.
	Dropped []Relation
}

// Build parses text and assembles the graph it describes.
//
// Nodes are created from both ends of every declared relation, in first-seen
// order, each with a random position, the fixed size and a random color.
// Only reciprocal relations become edges; both directions are added.
func Build(text string, opts Options) (*Result, error) {
	entries, err := Parse(text)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	g := graph.New()
	ensure := func(id string) error {
		if g.HasNode(id) {
			return nil
		}
		return g.AddNode(graph.Node{
			ID:    id,
			Label: id,
			X:     opts.Rand.Float64() * opts.Extent,
			Y:     opts.Rand.Float64() * opts.Extent,
			Size:  opts.NodeSize,
			Color: RandomColor(opts.Rand),
		})
	}

	rels := Relations(entries)
	for _, r := range rels {
		if err := ensure(r.Source); err != nil {
			return nil, fmt.Errorf("add node %q: %w", r.Source, err)
		}
		if err := ensure(r.Target); err != nil {
			return nil, fmt.Errorf("add node %q: %w", r.Target, err)
		}
	}

	for _, r := range Reciprocal(rels) {
		if err := g.AddEdge(r.Source, r.Target); err != nil {
			return nil, fmt.Errorf("add edge %s: %w", r, err)
		}
	}

	return &Result{
		Graph:     g,
		Relations: rels,
		Dropped:   OneWay(rels),
	}, nil
}

// RandomColor returns a random hex color. Saturation and value are kept in
// a band that stays readable on a light background.
func RandomColor(r *rand.Rand) string {
	h := r.Float64() * 360
	s := 0.45 + r.Float64()*0.4
	v := 0.55 + r.Float64()*0.35
	return colorful.Hsv(h, s, v).Hex()
}
