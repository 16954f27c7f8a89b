package viewer

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/render"
)

const sample = "A->B,C,D\nB->A,C,D\nC->A,B\nD->A,B"

// newTestViewer returns a viewer whose simulation never ticks, so positions
// only change through pointer events.
func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	v := New(context.Background(), Options{Width: 400, Height: 300, Tick: time.Hour, Seed: 1})
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func nodeAt(f *Frame, id string) (FrameNode, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return FrameNode{}, false
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)

	sub, err := v.Submit(ctx, sample+"\nX->Y")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.Revision == "" {
		t.Error("revision should be set")
	}
	if got := strings.Join(sub.Nodes, ","); got != "A,B,C,D,X,Y" {
		t.Errorf("Nodes = %s, want A,B,C,D,X,Y", got)
	}
	want := []graph.Pair{{A: "A", B: "B"}, {A: "A", B: "C"}, {A: "A", B: "D"}, {A: "B", B: "C"}, {A: "B", B: "D"}}
	if len(sub.Edges) != len(want) {
		t.Fatalf("Edges = %v, want %v", sub.Edges, want)
	}
	for i := range want {
		if sub.Edges[i] != want[i] {
			t.Errorf("Edges[%d] = %v, want %v", i, sub.Edges[i], want[i])
		}
	}
	if len(sub.Dropped) != 1 || sub.Dropped[0] != (adjlist.Relation{Source: "X", Target: "Y"}) {
		t.Errorf("Dropped = %v, want [X->Y]", sub.Dropped)
	}

	again, err := v.Submit(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}
	if again.Revision == sub.Revision {
		t.Error("each submission should get a new revision")
	}
}

func TestSubmitParseErrorKeepsGraph(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)

	sub, err := v.Submit(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}
	before, _, err := v.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}

	_, err = v.Submit(ctx, "A->B\nnonsense")
	if !errs.Is(err, errs.ErrCodeParse) {
		t.Fatalf("error = %v, want PARSE_ERROR", err)
	}
	var perr *adjlist.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Errorf("ParseError = %v, want line 2", perr)
	}

	after, rev, err := v.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if rev != sub.Revision {
		t.Errorf("revision changed to %s after failed submit", rev)
	}
	if after.NodeCount() != before.NodeCount() || after.EdgeCount() != before.EdgeCount() {
		t.Error("failed submit modified the graph")
	}
	for _, n := range before.Nodes() {
		m, ok := after.Node(n.ID)
		if !ok || m.X != n.X || m.Y != n.Y {
			t.Errorf("node %s moved after failed submit", n.ID)
		}
	}
}

func TestSubmitEmpty(t *testing.T) {
	v := newTestViewer(t)
	sub, err := v.Submit(context.Background(), "\n\n")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(sub.Nodes) != 0 || len(sub.Edges) != 0 {
		t.Errorf("empty input gave %d nodes, %d edges", len(sub.Nodes), len(sub.Edges))
	}
}

func TestDrag(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)
	sub, err := v.Submit(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}

	if err := v.Pointer(ctx, Event{Type: EventDown, Node: "A", Revision: sub.Revision}); err != nil {
		t.Fatalf("down: %v", err)
	}
	f, _ := v.Frame(ctx)
	if f.Dragging != "A" {
		t.Fatalf("Dragging = %q, want A", f.Dragging)
	}
	if a, _ := nodeAt(f, "A"); !a.Highlighted {
		t.Error("dragged node should be highlighted")
	}

	if err := v.Pointer(ctx, Event{Type: EventMove, X: 120, Y: 80, Revision: sub.Revision}); err != nil {
		t.Fatalf("move: %v", err)
	}
	f, _ = v.Frame(ctx)
	a, _ := nodeAt(f, "A")
	if math.Abs(a.X-120) > 1e-6 || math.Abs(a.Y-80) > 1e-6 {
		t.Errorf("A at (%v, %v), want (120, 80)", a.X, a.Y)
	}

	if err := v.Pointer(ctx, Event{Type: EventUp, Revision: sub.Revision}); err != nil {
		t.Fatalf("up: %v", err)
	}
	f, _ = v.Frame(ctx)
	if f.Dragging != "" {
		t.Errorf("Dragging = %q after up", f.Dragging)
	}
	if a, _ := nodeAt(f, "A"); a.Highlighted {
		t.Error("node should be unhighlighted after up")
	}
}

func TestDragHitTest(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)
	if _, err := v.Submit(ctx, sample); err != nil {
		t.Fatal(err)
	}
	f, _ := v.Frame(ctx)
	c, _ := nodeAt(f, "C")

	if err := v.Pointer(ctx, Event{Type: EventDown, X: c.X, Y: c.Y}); err != nil {
		t.Fatal(err)
	}
	f, _ = v.Frame(ctx)
	if f.Dragging == "" {
		t.Error("down on a node center should start a drag")
	}
}

func TestPointerIgnored(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)
	old, err := v.Submit(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Submit(ctx, sample); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ev   Event
	}{
		{"stale revision", Event{Type: EventDown, Node: "A", Revision: old.Revision}},
		{"move without drag", Event{Type: EventMove, X: 10, Y: 10}},
		{"up without drag", Event{Type: EventUp}},
		{"down on empty space", Event{Type: EventDown, X: -1000, Y: -1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Pointer(ctx, tt.ev); err != nil {
				t.Fatalf("Pointer() error = %v", err)
			}
			f, _ := v.Frame(ctx)
			if f.Dragging != "" {
				t.Errorf("Dragging = %q, want none", f.Dragging)
			}
		})
	}
}

func TestPointerErrors(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)
	if _, err := v.Submit(ctx, sample); err != nil {
		t.Fatal(err)
	}
	if err := v.Pointer(ctx, Event{Type: EventDown, Node: "Z"}); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("unknown node error = %v, want NOT_FOUND", err)
	}
	if err := v.Pointer(ctx, Event{Type: "wheel"}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("unknown type error = %v, want INVALID_INPUT", err)
	}
}

func TestResizeAndZoom(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)

	if err := v.Resize(ctx, 1024, 768); err != nil {
		t.Fatal(err)
	}
	if err := v.Resize(ctx, 0, 10); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Resize(0, 10) error = %v, want INVALID_INPUT", err)
	}
	if got, _ := v.Zoom(ctx, 5); got != MaxCameraRatio {
		t.Errorf("Zoom(5) = %v, want %v", got, MaxCameraRatio)
	}
	if got, _ := v.Zoom(ctx, 0.1); got != MinCameraRatio {
		t.Errorf("Zoom(0.1) = %v, want %v", got, MinCameraRatio)
	}

	f, _ := v.Frame(ctx)
	if f.Width != 1024 || f.Height != 768 || f.Ratio != MinCameraRatio {
		t.Errorf("frame = %vx%v ratio %v", f.Width, f.Height, f.Ratio)
	}
}

func TestFrameInsideViewport(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)
	if _, err := v.Submit(ctx, sample); err != nil {
		t.Fatal(err)
	}
	f, err := v.Frame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Nodes) != 4 || len(f.Edges) != 5 {
		t.Fatalf("frame has %d nodes, %d edges; want 4, 5", len(f.Nodes), len(f.Edges))
	}
	for _, n := range f.Nodes {
		if n.X < 0 || n.X > f.Width || n.Y < 0 || n.Y > f.Height {
			t.Errorf("node %s at (%v, %v) outside %vx%v", n.ID, n.X, n.Y, f.Width, f.Height)
		}
		if n.Radius <= 0 {
			t.Errorf("node %s radius = %v", n.ID, n.Radius)
		}
	}
}

func TestSimulationSettles(t *testing.T) {
	ctx := context.Background()
	v := New(ctx, Options{Tick: time.Millisecond, Epsilon: 1e9, Seed: 1})
	defer v.Close()
	if _, err := v.Submit(ctx, sample); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f, err := v.Frame(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if f.Settled {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("simulation did not settle")
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	v := newTestViewer(t)
	if _, err := v.Submit(ctx, sample); err != nil {
		t.Fatal(err)
	}
	data, err := v.Export(ctx, render.FormatSVG)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("export is not svg")
	}
	if _, err := v.Export(ctx, render.Format("gif")); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Export(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestClose(t *testing.T) {
	v := New(context.Background(), Options{})
	if err := v.Close(); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := v.Submit(context.Background(), sample); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after Close error = %v, want ErrClosed", err)
	}
}

func TestContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	v := New(ctx, Options{})
	cancel()
	select {
	case <-v.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestCamera(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: "a", X: 0, Y: 0})
	_ = g.AddNode(graph.Node{ID: "b", X: 10, Y: 5})

	c := NewCamera(200, 100, 10)
	tr := c.Transform(g)
	p := tr.Apply(r2.Vec{X: 0, Y: 0})
	q := tr.Apply(r2.Vec{X: 10, Y: 5})
	if p.X < 10-1e-9 || q.X > 190+1e-9 {
		t.Errorf("fit ignores padding: %v %v", p, q)
	}

	c.Freeze(r2.Box{Min: r2.Vec{}, Max: r2.Vec{X: 10, Y: 5}})
	_ = g.SetPosition("b", 100, 100)
	if got := c.Transform(g); got != tr {
		t.Errorf("frozen transform changed: %v != %v", got, tr)
	}
	c.Unfreeze()
	if got := c.Transform(g); got == tr {
		t.Error("unfrozen transform should follow the graph")
	}

	if got := c.SetRatio(-1); got != 1 {
		t.Errorf("SetRatio(-1) = %v, want unchanged 1", got)
	}
}
