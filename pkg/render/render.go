package render

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/layout"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// Engine names the component that positions nodes for a static render.
type Engine string

const (
	// EngineForce draws nodes where the force simulation left them.
	EngineForce Engine = "force"

	// EngineGraphviz lets Graphviz neato place the nodes.
	EngineGraphviz Engine = "graphviz"
)

// Default frame settings.
const (
	DefaultWidth   = 800.0
	DefaultHeight  = 600.0
	DefaultPadding = 40.0
)

// Options configures a static render.
type Options struct {
	Width   float64
	Height  float64
	Padding float64
	Engine  Engine
}

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Engine == "" {
		o.Engine = EngineForce
	}
	return o
}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json)", s)
	}
	return f, nil
}

// ParseFormats parses a comma-separated format list. Duplicates are removed
// and an empty list yields svg.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return []Format{FormatSVG}, nil
	}
	var out []Format
	for part := range strings.SplitSeq(s, ",") {
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ParseEngine validates an engine name.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(s))); e {
	case "", EngineForce:
		return EngineForce, nil
	case EngineGraphviz:
		return e, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidEngine, "invalid engine: %q (must be one of: force, graphviz)", s)
	}
}

// Render produces g in the given format.
//
// With EngineForce the current node coordinates are fitted into the frame.
// With EngineGraphviz, svg and png are laid out by neato and dot omits
// positions; json always carries the graph's own coordinates.
func Render(ctx context.Context, g *graph.Graph, format Format, opts Options) ([]byte, error) {
	opts = opts.WithDefaults()
	if err := errs.ValidateDimensions(opts.Width, opts.Height); err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return graph.Marshal(g)
	case FormatDOT:
		return []byte(ToDOT(g, opts)), nil
	}

	if opts.Engine == EngineGraphviz {
		return Graphviz(ctx, g, format, opts)
	}
	switch format {
	case FormatSVG:
		return SVG(g, opts)
	case FormatPNG:
		return PNG(g, opts)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

// RenderAll renders every requested format, keyed by format name.
func RenderAll(ctx context.Context, g *graph.Graph, formats []Format, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := Render(ctx, g, f, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		out[string(f)] = data
	}
	return out, nil
}

// =============================================================================
// Scene - graph fitted into the output frame
// =============================================================================

type scene struct {
	width, height int
	nodes         []placedNode
	edges         [][2]r2.Vec
}

type placedNode struct {
	label  string
	center r2.Vec
	radius float64
	color  string
}

const (
	backgroundColor = "#ffffff"
	edgeColor       = "#cccccc"
	labelColor      = "#333333"
	fallbackColor   = "#999999"
)

func newScene(g *graph.Graph, opts Options) scene {
	tr := layout.Fit(layout.Bounds(g), opts.Width, opts.Height, opts.Padding)

	pos := make(map[string]r2.Vec, g.NodeCount())
	s := scene{width: int(opts.Width), height: int(opts.Height)}
	for _, n := range g.Nodes() {
		p := tr.Apply(r2.Vec{X: n.X, Y: n.Y})
		pos[n.ID] = p
		color := n.Color
		if color == "" {
			color = fallbackColor
		}
		s.nodes = append(s.nodes, placedNode{
			label:  n.DisplayLabel(),
			center: p,
			radius: nodeRadius(n),
			color:  color,
		})
	}
	for _, p := range g.Pairs() {
		if p.A == p.B {
			continue
		}
		s.edges = append(s.edges, [2]r2.Vec{pos[p.A], pos[p.B]})
	}
	return s
}

// nodeRadius returns the pixel radius of n. Sizes are in screen pixels and
// do not scale with the frame.
func nodeRadius(n *graph.Node) float64 {
	if n.Size <= 0 {
		return 10
	}
	return n.Size
}
