package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/graphvis/pkg/graph"
)

// SVG draws g as a standalone SVG document.
func SVG(g *graph.Graph, opts Options) ([]byte, error) {
	s := newScene(g, opts.WithDefaults())

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(s.width, s.height)
	canvas.Rect(0, 0, s.width, s.height, "fill:"+backgroundColor)

	canvas.Gid("edges")
	for _, e := range s.edges {
		canvas.Line(px(e[0].X), px(e[0].Y), px(e[1].X), px(e[1].Y),
			fmt.Sprintf("stroke:%s;stroke-width:1.5", edgeColor))
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range s.nodes {
		x, y, r := px(n.center.X), px(n.center.Y), max(px(n.radius), 1)
		canvas.Circle(x, y, r, fmt.Sprintf("fill:%s;stroke:#ffffff;stroke-width:1", n.color))
		canvas.Text(x+r+3, y+4, n.label,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", labelColor))
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes(), nil
}

func px(v float64) int { return int(math.Round(v)) }
