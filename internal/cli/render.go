package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/pipeline"
	"github.com/matzehuels/graphvis/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file (single format) or base path (several)
	formats    string  // comma-separated formats
	engine     string  // "force" or "graphviz"
	width      float64 // frame width in pixels
	height     float64 // frame height in pixels
	seed       uint64  // seed for initial positions and colors
	iterations int     // simulation cap
	noCache    bool    // bypass the cache entirely
	refresh    bool    // recompute but still store results
	redisURL   string  // shared cache instead of the file cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Lay out an adjacency list and render it to files",
		Long: `Lay out an adjacency list with the force simulation and render the settled
graph. The input may also be a node-link JSON document written by "parse -o" or
exported from the browser view, in which case its positions are rendered as-is.

Layouts and artifacts are cached by content hash in the user cache directory,
or in Redis when --redis-url (or cache.redis_url in the config) is set.`,
		Example: `  graphvis render friends.txt
  graphvis render friends.txt -f svg,png -o out/friends
  graphvis render friends.txt -f dot --engine graphviz
  cat friends.txt | graphvis render - -o friends.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := c.renderPipelineOptions(cmd, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.InOrStdin(), args[0], opts, po)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "render engine: force (default), graphviz")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height in pixels")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for initial positions and colors")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "maximum simulation steps")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "use a Redis cache (redis://host:port/db)")

	return cmd
}

// renderPipelineOptions merges config-file values with flags the user set.
func (c *CLI) renderPipelineOptions(cmd *cobra.Command, opts renderOpts) (pipeline.Options, error) {
	cfg := c.settings()
	po := pipeline.Options{
		Seed:       cfg.Layout.Seed,
		Iterations: cfg.Layout.Iterations,
		Epsilon:    cfg.Layout.Epsilon,
		Layout:     cfg.Layout.Settings,
		Engine:     cfg.Render.Engine,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		po.Seed = opts.seed
	}
	if flags.Changed("iterations") {
		po.Iterations = opts.iterations
	}
	if flags.Changed("engine") {
		po.Engine = opts.engine
	}
	if flags.Changed("width") {
		po.Width = opts.width
	}
	if flags.Changed("height") {
		po.Height = opts.height
	}
	formats, err := render.ParseFormats(opts.formats)
	if err != nil {
		return po, err
	}
	po.Formats = po.Formats[:0]
	for _, f := range formats {
		po.Formats = append(po.Formats, string(f))
	}

	if err := po.ValidateAndSetDefaults(); err != nil {
		return po, err
	}
	if opts.output != "" && len(po.Formats) == 1 {
		if err := errs.ValidateOutputPath(opts.output); err != nil {
			return po, err
		}
	}
	return po, nil
}

func (c *CLI) runRender(ctx context.Context, stdin io.Reader, input string, opts renderOpts, po pipeline.Options) error {
	if isGraphDocument(input) {
		return c.renderDocument(ctx, input, opts, po)
	}

	text, err := readInput(stdin, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.redisURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, "Laying out graph...")
	spinner.Start()
	result, err := runner.Execute(ctx, text, po)
	if err != nil {
		spinner.Stop()
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, po.Formats, opts.output, input)
	if err != nil {
		spinner.StopWithError("Could not write output")
		return err
	}

	spinner.StopWithSuccess("Rendered %s", input)
	printStats(result.Stats.NodeCount, len(result.Graph.Pairs()), result.Stats.Dropped,
		cacheStatus(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	printDropped(result.Dropped)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// renderDocument renders a node-link JSON document without re-running the
// layout; the cache does not apply.
func (c *CLI) renderDocument(ctx context.Context, input string, opts renderOpts, po pipeline.Options) error {
	p := newProgress(loggerFromContext(ctx))
	data, err := os.ReadFile(input)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", input)
	}
	artifacts, err := pipeline.RenderFromData(ctx, data, po)
	if err != nil {
		return err
	}

	// Never overwrite the input document with its own json rendering.
	output := opts.output
	if output == "" && slices.Contains(po.Formats, "json") {
		output = basePath("", input) + ".rendered.json"
	}
	paths, err := writeArtifacts(artifacts, po.Formats, output, input)
	if err != nil {
		return err
	}

	p.done("Rendered " + input)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// isGraphDocument reports whether input names a node-link JSON file.
func isGraphDocument(input string) bool {
	return strings.EqualFold(filepath.Ext(input), ".json")
}

// writeArtifacts writes each artifact and returns the paths in format order.
// A single format with an explicit -o is written to exactly that path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		data := artifacts[formats[0]]
		if err := writeFile(output, data); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := writeFile(path, artifacts[f]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPath, err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
