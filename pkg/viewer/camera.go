package viewer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/layout"
)

// Camera ratio limits. A ratio above 1 zooms out.
const (
	MinCameraRatio = 0.5
	MaxCameraRatio = 2.0
)

// Camera maps graph space into the viewport. It fits the graph's bounding
// box with padding and keeps the aspect ratio, then applies the zoom ratio
// around the viewport center.
type Camera struct {
	Width   float64
	Height  float64
	Padding float64

	ratio  float64
	frozen *r2.Box
}

// NewCamera returns a camera for a width×height viewport at ratio 1.
func NewCamera(width, height, padding float64) *Camera {
	return &Camera{Width: width, Height: height, Padding: padding, ratio: 1}
}

// Resize changes the viewport size.
func (c *Camera) Resize(width, height float64) {
	c.Width, c.Height = width, height
}

// Ratio returns the current zoom ratio.
func (c *Camera) Ratio() float64 { return c.ratio }

// SetRatio sets the zoom ratio, clamped to [MinCameraRatio, MaxCameraRatio],
// and returns the value applied.
func (c *Camera) SetRatio(ratio float64) float64 {
	if math.IsNaN(ratio) || ratio <= 0 {
		return c.ratio
	}
	c.ratio = math.Min(math.Max(ratio, MinCameraRatio), MaxCameraRatio)
	return c.ratio
}

// Freeze pins the fitted box so moving nodes does not rescale the view.
func (c *Camera) Freeze(b r2.Box) { c.frozen = &b }

// Unfreeze lets the view follow the graph's bounds again.
func (c *Camera) Unfreeze() { c.frozen = nil }

// Frozen reports whether the box is pinned.
func (c *Camera) Frozen() bool { return c.frozen != nil }

// Transform returns the graph-to-viewport mapping for g.
func (c *Camera) Transform(g *graph.Graph) layout.Transform {
	b := layout.Bounds(g)
	if c.frozen != nil {
		b = *c.frozen
	}
	t := layout.Fit(b, c.Width, c.Height, c.Padding)
	if c.ratio != 1 {
		t = t.Zoom(c.ratio, r2.Vec{X: c.Width / 2, Y: c.Height / 2})
	}
	return t
}
