package cli

import (
	"context"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output string // node-link JSON output path
	json   bool   // print the summary as JSON
	strict bool   // fail when one-way relations are dropped
	seed   uint64 // seed for initial positions and colors
}

// parseSummary is the --json form of a parse result.
type parseSummary struct {
	Nodes   []string           `json:"nodes"`
	Edges   []graph.Pair       `json:"edges"`
	Dropped []adjlist.Relation `json:"dropped"`
}

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{seed: pipeline.DefaultSeed}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse an adjacency list and report its mutual relations",
		Long: `Parse an adjacency list, one "source->target1,target2" declaration per line.

Only relations declared in both directions become edges; one-way relations are
reported and dropped. Use -o to write the graph as a node-link JSON document
that "render" accepts as input.`,
		Example: `  graphvis parse friends.txt
  echo "A->B" | graphvis parse - --strict
  graphvis parse friends.txt -o friends.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the graph as node-link JSON to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail if any relation is one-way")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "seed for initial positions and colors")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, opts parseOpts) error {
	text, err := readInput(stdin, input)
	if err != nil {
		return err
	}

	res, err := pipeline.Build(ctx, text, pipeline.Options{Seed: opts.seed})
	if err != nil {
		return err
	}
	g := res.Graph
	c.Logger.Debug("parsed", "input", input, "relations", len(res.Relations))

	if opts.output != "" {
		if err := writeGraph(g, opts.output); err != nil {
			return err
		}
	}

	if opts.json {
		summary := parseSummary{
			Nodes:   g.NodeIDs(),
			Edges:   g.Pairs(),
			Dropped: res.Dropped,
		}
		if summary.Dropped == nil {
			summary.Dropped = []adjlist.Relation{}
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		printSuccess("Parsed %s", input)
		printStats(g.NodeCount(), len(g.Pairs()), len(res.Dropped), "")
		printDropped(res.Dropped)
		if opts.output != "" {
			printFile(opts.output)
			printNextStep("Render it", "graphvis render "+opts.output)
		}
	}

	if opts.strict && len(res.Dropped) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "%d one-way relation(s) in %s", len(res.Dropped), input)
	}
	return nil
}

// writeGraph writes g as a node-link JSON document.
func writeGraph(g *graph.Graph, path string) error {
	if err := errs.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := graph.Write(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
