package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform maps graph coordinates to viewport pixels: p' = p*Scale + Offset.
type Transform struct {
	Scale  float64
	Offset r2.Vec
}

// Fit returns the transform that centers box b in a width×height viewport,
// leaving padding on every side and keeping the aspect ratio. A box with no
// extent on an axis is treated as one unit wide on that axis.
func Fit(b r2.Box, width, height, padding float64) Transform {
	availW := math.Max(width-2*padding, 1)
	availH := math.Max(height-2*padding, 1)

	size := r2.Sub(b.Max, b.Min)
	if size.X <= 0 {
		size.X = 1
	}
	if size.Y <= 0 {
		size.Y = 1
	}
	scale := math.Min(availW/size.X, availH/size.Y)

	center := r2.Scale(0.5, r2.Add(b.Min, b.Max))
	viewCenter := r2.Vec{X: width / 2, Y: height / 2}
	return Transform{
		Scale:  scale,
		Offset: r2.Sub(viewCenter, r2.Scale(scale, center)),
	}
}

// Apply maps a graph point to the viewport.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(t.Scale, p), t.Offset)
}

// Invert maps a viewport point back to graph space.
func (t Transform) Invert(p r2.Vec) r2.Vec {
	if t.Scale == 0 {
		return p
	}
	return r2.Scale(1/t.Scale, r2.Sub(p, t.Offset))
}

// Zoom scales the transform around the viewport point c. A ratio above 1
// zooms out, below 1 zooms in.
func (t Transform) Zoom(ratio float64, c r2.Vec) Transform {
	if ratio <= 0 {
		return t
	}
	return Transform{
		Scale:  t.Scale / ratio,
		Offset: r2.Add(c, r2.Scale(1/ratio, r2.Sub(t.Offset, c))),
	}
}
