package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphvis/pkg/graph"
)

// Settings tunes the force simulation.
type Settings struct {
	// Attraction pulls the ends of every edge together, proportional to the
	// square of their distance.
	Attraction float64 `toml:"attraction"`

	// Repulsion pushes every pair of nodes apart, inversely proportional to
	// their distance.
	Repulsion float64 `toml:"repulsion"`

	// Gravity pulls every node toward the origin so disconnected components
	// do not drift away.
	Gravity float64 `toml:"gravity"`

	// Inertia is the share of the previous velocity kept each step, in [0, 1).
	Inertia float64 `toml:"inertia"`

	// MaxMove caps the distance a node may travel in one step.
	MaxMove float64 `toml:"max_move"`
}

// DefaultSettings returns the settings used by the interactive viewer.
func DefaultSettings() Settings {
	return Settings{
		Attraction: 0.0005,
		Repulsion:  0.1,
		Gravity:    0.0001,
		Inertia:    0.6,
		MaxMove:    200,
	}
}

// WithDefaults fills zero fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Attraction == 0 {
		s.Attraction = d.Attraction
	}
	if s.Repulsion == 0 {
		s.Repulsion = d.Repulsion
	}
	if s.Gravity == 0 {
		s.Gravity = d.Gravity
	}
	if s.Inertia == 0 {
		s.Inertia = d.Inertia
	}
	if s.MaxMove == 0 {
		s.MaxMove = d.MaxMove
	}
	return s
}

// IsHighlighted is the default fixed-node predicate: a node being dragged
// stays where the pointer put it.
func IsHighlighted(n *graph.Node) bool { return n.Highlighted }

// Simulation runs a force-directed layout over a graph in place.
//
// A Simulation is not safe for concurrent use; the viewer drives it from its
// event loop.
type Simulation struct {
	g        *graph.Graph
	settings Settings
	velocity map[string]r2.Vec

	// IsFixed reports whether a node must not be moved. Fixed nodes still
	// push and pull the others. Defaults to IsHighlighted.
	IsFixed func(*graph.Node) bool
}

// NewSimulation prepares a simulation over g. Zero settings take defaults.
func NewSimulation(g *graph.Graph, settings Settings) *Simulation {
	return &Simulation{
		g:        g,
		settings: settings.WithDefaults(),
		velocity: make(map[string]r2.Vec, g.NodeCount()),
		IsFixed:  IsHighlighted,
	}
}

// Graph returns the graph the simulation moves.
func (s *Simulation) Graph() *graph.Graph { return s.g }

// Settings returns the effective settings.
func (s *Simulation) Settings() Settings { return s.settings }

// Step runs one iteration and returns the largest distance any node moved.
func (s *Simulation) Step() float64 {
	nodes := s.g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	pos := make([]r2.Vec, len(nodes))
	vel := make([]r2.Vec, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		pos[i] = r2.Vec{X: n.X, Y: n.Y}
		vel[i] = r2.Scale(s.settings.Inertia, s.velocity[n.ID])
		index[n.ID] = i
	}

	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			d := r2.Sub(pos[i], pos[j])
			dist := r2.Norm(d)
			if dist == 0 {
				// Coincident nodes get pushed apart along a fixed diagonal.
				d, dist = r2.Vec{X: 1, Y: 1}, math.Sqrt2
			}
			f := r2.Scale(s.settings.Repulsion/(dist*dist), d)
			vel[i] = r2.Add(vel[i], f)
			vel[j] = r2.Sub(vel[j], f)
		}
	}

	for _, e := range s.g.Edges() {
		i, j := index[e.Source], index[e.Target]
		if i == j {
			continue
		}
		d := r2.Sub(pos[j], pos[i])
		f := r2.Scale(s.settings.Attraction*r2.Norm(d), d)
		vel[i] = r2.Add(vel[i], f)
		vel[j] = r2.Sub(vel[j], f)
	}

	var maxMoved float64
	for i, n := range nodes {
		v := r2.Sub(vel[i], r2.Scale(s.settings.Gravity*r2.Norm(pos[i]), pos[i]))
		if s.IsFixed != nil && s.IsFixed(n) {
			s.velocity[n.ID] = r2.Vec{}
			continue
		}
		if l := r2.Norm(v); l > s.settings.MaxMove {
			v = r2.Scale(s.settings.MaxMove/l, v)
		}
		s.velocity[n.ID] = v
		n.X += v.X
		n.Y += v.Y
		maxMoved = math.Max(maxMoved, r2.Norm(v))
	}
	return maxMoved
}

// Run performs n iterations.
func (s *Simulation) Run(n int) {
	for range n {
		s.Step()
	}
}

// RunUntilStable iterates until no node moves more than epsilon in a step or
// max iterations have run. It returns the number of iterations performed.
func (s *Simulation) RunUntilStable(max int, epsilon float64) int {
	for i := 1; i <= max; i++ {
		if s.Step() <= epsilon {
			return i
		}
	}
	return max
}

// Reset discards accumulated velocity, e.g. after a node was dragged.
func (s *Simulation) Reset() {
	clear(s.velocity)
}

// Bounds returns the bounding box of all node centers. An empty graph has a
// zero box.
func Bounds(g *graph.Graph) r2.Box {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return r2.Box{}
	}
	b := r2.Box{
		Min: r2.Vec{X: nodes[0].X, Y: nodes[0].Y},
		Max: r2.Vec{X: nodes[0].X, Y: nodes[0].Y},
	}
	for _, n := range nodes[1:] {
		b.Min.X = math.Min(b.Min.X, n.X)
		b.Min.Y = math.Min(b.Min.Y, n.Y)
		b.Max.X = math.Max(b.Max.X, n.X)
		b.Max.Y = math.Max(b.Max.Y, n.Y)
	}
	return b
}
