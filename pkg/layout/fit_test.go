package layout

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestFit(t *testing.T) {
	box := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 10, Y: 5}}
	tr := Fit(box, 220, 220, 10)

	if tr.Scale != 20 {
		t.Errorf("Scale = %v, want 20 (width-limited)", tr.Scale)
	}
	tests := []struct {
		in, want r2.Vec
	}{
		{r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 60}},
		{r2.Vec{X: 10, Y: 5}, r2.Vec{X: 210, Y: 160}},
		{r2.Vec{X: 5, Y: 2.5}, r2.Vec{X: 110, Y: 110}},
	}
	for _, tt := range tests {
		if got := tr.Apply(tt.in); !near(got, tt.want) {
			t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFitDegenerateBox(t *testing.T) {
	p := r2.Vec{X: 3, Y: 4}
	tr := Fit(r2.Box{Min: p, Max: p}, 100, 50, 5)
	if got := tr.Apply(p); !near(got, r2.Vec{X: 50, Y: 25}) {
		t.Errorf("single point maps to %v, want viewport center", got)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	tr := Fit(r2.Box{Min: r2.Vec{X: -3, Y: 2}, Max: r2.Vec{X: 7, Y: 9}}, 640, 480, 30)
	for _, p := range []r2.Vec{{X: 0, Y: 0}, {X: 320, Y: 240}, {X: 12.5, Y: 470}} {
		if got := tr.Apply(tr.Invert(p)); !near(got, p) {
			t.Errorf("Apply(Invert(%v)) = %v", p, got)
		}
	}
}

func TestZoomKeepsCenterFixed(t *testing.T) {
	tr := Fit(r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 10, Y: 10}}, 100, 100, 0)
	c := r2.Vec{X: 50, Y: 50}
	zoomed := tr.Zoom(2, c)

	if zoomed.Scale != tr.Scale/2 {
		t.Errorf("Scale = %v, want %v", zoomed.Scale, tr.Scale/2)
	}
	if got := zoomed.Apply(tr.Invert(c)); !near(got, c) {
		t.Errorf("zoom center moved to %v", got)
	}
	if got := tr.Zoom(0, c); got != tr {
		t.Error("Zoom(0) should be a no-op")
	}
}
