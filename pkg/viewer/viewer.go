// Package viewer runs the interactive graph view.
//
// A [Viewer] owns the current graph, its force simulation, the camera and the
// drag state. All of them live on a single goroutine that interleaves
// commands with simulation ticks, so nothing in this package takes a lock on
// the graph. Callers talk to the loop through methods that block until the
// loop has handled the command:
//
//	v := viewer.New(ctx, viewer.Options{Width: 800, Height: 600})
//	defer v.Close()
//
//	sub, err := v.Submit(ctx, "A->B\nB->A")
//	if err != nil {
//	    // the previous graph is still shown
//	}
//	frame, _ := v.Frame(ctx)
//
// A failed submission leaves the previous graph untouched. A successful one
// replaces graph, simulation and drag state, and issues a new [Revision];
// pointer events carrying an older revision are ignored.
package viewer

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/layout"
	"github.com/matzehuels/graphvis/pkg/observability"
	"github.com/matzehuels/graphvis/pkg/render"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultTick is the interval between simulation steps.
	DefaultTick = 16 * time.Millisecond

	// DefaultEpsilon is the per-step displacement below which the simulation
	// idles until the graph changes again.
	DefaultEpsilon = 0.01
)

// ErrClosed is returned by every method once the loop has stopped.
var ErrClosed = errs.New(errs.ErrCodeClosed, "viewer closed")

// =============================================================================
// Types
// =============================================================================

// Revision identifies one successfully submitted graph.
type Revision string

// EventType is the kind of a pointer event.
type EventType string

const (
	EventDown EventType = "down"
	EventMove EventType = "move"
	EventUp   EventType = "up"
)

// Event is a pointer event in viewport coordinates.
//
// For EventDown, Node names the node under the pointer; when it is empty the
// node is found by hit-testing X and Y. An empty Revision applies to the
// current graph.
type Event struct {
	Type     EventType `json:"type"`
	Node     string    `json:"node,omitempty"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Revision Revision  `json:"revision,omitempty"`
}

// Submission describes the graph built by a successful Submit.
type Submission struct {
	Revision Revision           `json:"revision"`
	Nodes    []string           `json:"nodes"`
	Edges    []graph.Pair       `json:"edges"`
	Dropped  []adjlist.Relation `json:"dropped"`
}

// Frame is a snapshot of the graph in viewport space.
type Frame struct {
	Revision Revision    `json:"revision"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Ratio    float64     `json:"ratio"`
	Nodes    []FrameNode `json:"nodes"`
	Edges    []FrameEdge `json:"edges"`
	Dragging string      `json:"dragging,omitempty"`
	Settled  bool        `json:"settled"`
}

// FrameNode is a node placed in the viewport. Radius is in pixels.
type FrameNode struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

// FrameEdge is an undirected edge between two frame nodes.
type FrameEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Options configures a Viewer. Zero values take defaults.
type Options struct {
	Width   float64
	Height  float64
	Padding float64

	// Tick is the simulation interval (default DefaultTick).
	Tick time.Duration

	// Epsilon is the idle threshold (default DefaultEpsilon).
	Epsilon float64

	// Layout tunes the force simulation.
	Layout layout.Settings

	// Seed makes node positions and colors reproducible. Zero picks a
	// random seed.
	Seed uint64

	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = render.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = render.DefaultHeight
	}
	if o.Padding <= 0 {
		o.Padding = render.DefaultPadding
	}
	if o.Tick <= 0 {
		o.Tick = DefaultTick
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// =============================================================================
// Viewer
// =============================================================================

// Viewer serializes access to the interactive graph.
type Viewer struct {
	cmds   chan func(*state)
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

// New starts the viewer loop. It stops when ctx is canceled or Close is
// called. The initial graph is empty.
func New(ctx context.Context, opts Options) *Viewer {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)
	v := &Viewer{
		cmds:   make(chan func(*state)),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	s := newState(opts)
	go v.loop(ctx, s)
	return v
}

func (v *Viewer) loop(ctx context.Context, s *state) {
	defer close(v.done)
	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.opts.Logger.Debug("viewer stopped", "revision", s.rev)
			return
		case fn := <-v.cmds:
			fn(s)
		case <-ticker.C:
			s.tick()
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (v *Viewer) do(ctx context.Context, fn func(*state)) error {
	finished := make(chan struct{})
	cmd := func(s *state) {
		defer close(finished)
		fn(s)
	}
	select {
	case v.cmds <- cmd:
	case <-v.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// Once accepted, the command runs without further interruption.
	<-finished
	return nil
}

// Close stops the loop and waits for it to exit. It is safe to call more
// than once.
func (v *Viewer) Close() error {
	v.once.Do(v.cancel)
	<-v.done
	return nil
}

// Done is closed when the loop has exited.
func (v *Viewer) Done() <-chan struct{} { return v.done }

// Submit parses text and, on success, replaces the current graph.
//
// Malformed input is reported as a PARSE_ERROR wrapping the
// *adjlist.ParseError; the current graph, simulation and drag state are left
// exactly as they were.
func (v *Viewer) Submit(ctx context.Context, text string) (*Submission, error) {
	var (
		sub *Submission
		err error
	)
	if e := v.do(ctx, func(s *state) { sub, err = s.submit(ctx, text) }); e != nil {
		return nil, e
	}
	return sub, err
}

// Pointer applies a pointer event. Events for a stale revision, moves
// without an active drag and downs that miss every node are ignored.
func (v *Viewer) Pointer(ctx context.Context, ev Event) error {
	var err error
	if e := v.do(ctx, func(s *state) { err = s.pointer(ctx, ev) }); e != nil {
		return e
	}
	return err
}

// Resize sets the viewport size used for the coordinate mapping.
func (v *Viewer) Resize(ctx context.Context, width, height float64) error {
	if err := errs.ValidateDimensions(width, height); err != nil {
		return err
	}
	return v.do(ctx, func(s *state) { s.camera.Resize(width, height) })
}

// Zoom sets the camera ratio and returns the clamped value applied.
func (v *Viewer) Zoom(ctx context.Context, ratio float64) (float64, error) {
	var applied float64
	err := v.do(ctx, func(s *state) { applied = s.camera.SetRatio(ratio) })
	return applied, err
}

// Frame returns the current graph in viewport space.
func (v *Viewer) Frame(ctx context.Context) (*Frame, error) {
	var f *Frame
	err := v.do(ctx, func(s *state) { f = s.frame() })
	return f, err
}

// Snapshot returns a copy of the current graph and its revision.
func (v *Viewer) Snapshot(ctx context.Context) (*graph.Graph, Revision, error) {
	var (
		g   *graph.Graph
		rev Revision
	)
	err := v.do(ctx, func(s *state) { g, rev = s.graph.Clone(), s.rev })
	return g, rev, err
}

// Export renders the current graph at the viewport size. The graph is
// copied on the loop and rendered outside it, so a slow export does not
// stall the simulation.
func (v *Viewer) Export(ctx context.Context, format render.Format) ([]byte, error) {
	var (
		g    *graph.Graph
		opts render.Options
	)
	err := v.do(ctx, func(s *state) {
		g = s.graph.Clone()
		opts = render.Options{Width: s.camera.Width, Height: s.camera.Height, Padding: s.camera.Padding}
	})
	if err != nil {
		return nil, err
	}
	return render.Render(ctx, g, format, opts)
}

// =============================================================================
// Loop state
// =============================================================================

type state struct {
	opts    Options
	rand    *rand.Rand
	graph   *graph.Graph
	sim     *layout.Simulation
	rev     Revision
	camera  *Camera
	drag    string
	settled bool
}

func newState(opts Options) *state {
	g := graph.New()
	return &state{
		opts:    opts,
		rand:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		graph:   g,
		sim:     layout.NewSimulation(g, opts.Layout),
		camera:  NewCamera(opts.Width, opts.Height, opts.Padding),
		settled: true,
	}
}

func (s *state) submit(ctx context.Context, text string) (*Submission, error) {
	hooks := observability.Viewer()

	res, err := s.build(text)
	if err != nil {
		hooks.OnSubmit(ctx, "", 0, 0, err)
		return nil, err
	}

	s.graph = res.Graph
	s.sim = layout.NewSimulation(res.Graph, s.opts.Layout)
	s.rev = Revision(uuid.NewString())
	s.drag = ""
	s.camera.Unfreeze()
	s.settled = false

	hooks.OnSubmit(ctx, string(s.rev), res.Graph.NodeCount(), res.Graph.EdgeCount(), nil)
	s.opts.Logger.Info("graph replaced",
		"revision", s.rev,
		"nodes", res.Graph.NodeCount(),
		"edges", res.Graph.EdgeCount(),
		"dropped", len(res.Dropped))

	return &Submission{
		Revision: s.rev,
		Nodes:    res.Graph.NodeIDs(),
		Edges:    res.Graph.Pairs(),
		Dropped:  res.Dropped,
	}, nil
}

func (s *state) build(text string) (*adjlist.Result, error) {
	if err := errs.ValidateText(text); err != nil {
		return nil, err
	}
	res, err := adjlist.Build(text, adjlist.Options{Rand: s.rand})
	if err != nil {
		var perr *adjlist.ParseError
		if errors.As(err, &perr) {
			return nil, errs.Wrap(errs.ErrCodeParse, perr, "invalid adjacency list")
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "build graph")
	}
	return res, nil
}

func (s *state) pointer(ctx context.Context, ev Event) error {
	if ev.Revision != "" && ev.Revision != s.rev {
		s.opts.Logger.Debug("stale pointer event", "type", ev.Type, "revision", ev.Revision, "current", s.rev)
		return nil
	}

	switch ev.Type {
	case EventDown:
		id := ev.Node
		if id == "" {
			id = s.hit(r2.Vec{X: ev.X, Y: ev.Y})
		}
		if id == "" {
			return nil
		}
		if !s.graph.HasNode(id) {
			return errs.New(errs.ErrCodeNotFound, "node not found: %q", id)
		}
		if s.drag != "" && s.drag != id {
			s.release(ctx)
		}
		// Freeze before highlighting so the current view is what stays.
		s.camera.Freeze(layout.Bounds(s.graph))
		_ = s.graph.SetHighlighted(id, true)
		s.drag = id
		s.settled = false
		observability.Viewer().OnDrag(ctx, id, true)

	case EventMove:
		if s.drag == "" {
			return nil
		}
		p := s.camera.Transform(s.graph).Invert(r2.Vec{X: ev.X, Y: ev.Y})
		_ = s.graph.SetPosition(s.drag, p.X, p.Y)
		s.settled = false

	case EventUp:
		s.release(ctx)

	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown pointer event: %q", ev.Type)
	}
	return nil
}

// release ends the current drag, if any.
func (s *state) release(ctx context.Context) {
	if s.drag == "" {
		return
	}
	_ = s.graph.SetHighlighted(s.drag, false)
	observability.Viewer().OnDrag(ctx, s.drag, false)
	s.drag = ""
	s.camera.Unfreeze()
	s.sim.Reset()
	s.settled = false
}

// hit returns the topmost node whose disc contains the viewport point p.
func (s *state) hit(p r2.Vec) string {
	t := s.camera.Transform(s.graph)
	nodes := s.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		c := t.Apply(r2.Vec{X: n.X, Y: n.Y})
		if r2.Norm(r2.Sub(p, c)) <= radius(n) {
			return n.ID
		}
	}
	return ""
}

func (s *state) tick() {
	if s.settled {
		return
	}
	moved := s.sim.Step()
	if moved <= s.opts.Epsilon && s.drag == "" {
		s.settled = true
		s.opts.Logger.Debug("layout settled", "revision", s.rev)
	}
}

func (s *state) frame() *Frame {
	t := s.camera.Transform(s.graph)
	nodes := s.graph.Nodes()
	f := &Frame{
		Revision: s.rev,
		Width:    s.camera.Width,
		Height:   s.camera.Height,
		Ratio:    s.camera.Ratio(),
		Nodes:    make([]FrameNode, 0, len(nodes)),
		Dragging: s.drag,
		Settled:  s.settled,
	}
	for _, n := range nodes {
		p := t.Apply(r2.Vec{X: n.X, Y: n.Y})
		f.Nodes = append(f.Nodes, FrameNode{
			ID:          n.ID,
			Label:       n.DisplayLabel(),
			X:           p.X,
			Y:           p.Y,
			Radius:      radius(n),
			Color:       n.Color,
			Highlighted: n.Highlighted,
		})
	}
	pairs := s.graph.Pairs()
	f.Edges = make([]FrameEdge, 0, len(pairs))
	for _, p := range pairs {
		f.Edges = append(f.Edges, FrameEdge{Source: p.A, Target: p.B})
	}
	return f
}

func radius(n *graph.Node) float64 {
	if n.Size > 0 {
		return n.Size
	}
	return adjlist.DefaultNodeSize
}
