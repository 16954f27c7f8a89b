package render

import (
	"bytes"
	"fmt"
	"image/color"

	"git.sr.ht/~sbinet/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/graphvis/pkg/graph"
)

// PNG draws g as a PNG image.
func PNG(g *graph.Graph, opts Options) ([]byte, error) {
	s := newScene(g, opts.WithDefaults())

	dc := gg.NewContext(s.width, s.height)
	dc.SetColor(hexColor(backgroundColor))
	dc.Clear()

	dc.SetColor(hexColor(edgeColor))
	dc.SetLineWidth(1.5)
	for _, e := range s.edges {
		dc.DrawLine(e[0].X, e[0].Y, e[1].X, e[1].Y)
		dc.Stroke()
	}

	dc.SetFontFace(basicfont.Face7x13)
	for _, n := range s.nodes {
		dc.SetColor(hexColor(n.color))
		dc.DrawCircle(n.center.X, n.center.Y, n.radius)
		dc.Fill()

		dc.SetColor(hexColor(labelColor))
		dc.DrawStringAnchored(n.label, n.center.X+n.radius+3, n.center.Y, 0, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// hexColor parses "#rrggbb", falling back to grey for malformed values.
func hexColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		c, _ = colorful.Hex(fallbackColor)
	}
	return c
}
