package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/graph"
)

// pointsPerUnit scales graph coordinates into Graphviz points so that the
// default [0, 10) placement is not drawn as a single clump.
const pointsPerUnit = 36.0

// ToDOT converts g to an undirected Graphviz graph. Each reciprocal pair is
// written once. With EngineForce, node positions are pinned ("x,y!") so
// neato reproduces the force layout; with EngineGraphviz they are omitted.
func ToDOT(g *graph.Graph, opts Options) string {
	opts = opts.WithDefaults()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.3, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [color=\"" + edgeColor + "\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmt.Sprintf("label=\"\", xlabel=%q, fillcolor=%q", n.DisplayLabel(), nodeFill(n))
		if opts.Engine == EngineForce {
			attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", n.X*pointsPerUnit, -n.Y*pointsPerUnit)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, p := range g.Pairs() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", p.A, p.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeFill(n *graph.Node) string {
	if n.Color == "" {
		return fallbackColor
	}
	return n.Color
}

// Graphviz renders g through the neato engine. Only svg and png are
// supported.
func Graphviz(ctx context.Context, g *graph.Graph, format Format, opts Options) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "graphviz engine cannot produce %s", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	parsed, err := graphviz.ParseBytes([]byte(ToDOT(g, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a unitless one
// so browsers scale the drawing to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
