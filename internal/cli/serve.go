package cli

import (
	"context"
	"errors"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphvis/internal/server"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/viewer"
	"github.com/matzehuels/graphvis/pkg/watch"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr  string // listen address
	watch string // adjacency-list file to follow
	seed  uint64 // seed for node positions and colors
}

// serveCommand creates the serve command for the interactive view.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive graph view",
		Long: `Serve a browser page with an adjacency-list editor and a live force layout.
Nodes can be dragged; the graph settles when released.

With --watch, the file's contents seed the editor and every save is
submitted to the view.`,
		Example: `  graphvis serve
  graphvis serve --addr :9000 --watch friends.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if !cmd.Flags().Changed("addr") {
				opts.addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Layout.Seed
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().StringVar(&opts.watch, "watch", "", "adjacency-list file to reload on change")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for node positions and colors (0 is random)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.settings()

	v := viewer.New(ctx, viewer.Options{
		Epsilon: cfg.Layout.Epsilon,
		Layout:  cfg.Layout.Settings,
		Seed:    opts.seed,
		Logger:  c.Logger,
	})
	defer v.Close()

	sample := cfg.Server.Sample
	if opts.watch != "" {
		text, err := c.submitFile(ctx, v, opts.watch)
		if errs.Is(err, errs.ErrCodeInvalidPath) {
			return err
		}
		if err != nil {
			printWarning("%s", errs.UserMessage(err))
		}
		sample = text

		w, err := watch.New(opts.watch,
			watch.WithOnChange(func() {
				if _, err := c.submitFile(ctx, v, opts.watch); err != nil {
					printWarning("%s", errs.UserMessage(err))
				}
			}),
			watch.WithOnError(func(err error) {
				c.Logger.Warn("watch error", "error", err)
			}),
		)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				printWarning("Stopped watching %s: %v", opts.watch, err)
			}
		}()
	}

	srv, err := server.New(v, server.Options{Sample: sample, Logger: c.Logger})
	if err != nil {
		return err
	}

	err = srv.ListenAndServe(ctx, opts.addr, func(addr net.Addr) {
		printSuccess("Serving graph view")
		printKeyValue("URL", StyleLink.Render("http://"+addr.String()))
		if opts.watch != "" {
			printKeyValue("Watching", opts.watch)
		}
		printDetail("Press Ctrl+C to stop")
	})
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// submitFile reads path and submits it to the viewer, returning the text.
// Parse errors leave the current graph in place.
func (c *CLI) submitFile(ctx context.Context, v *viewer.Viewer, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", path)
	}
	text := string(data)
	sub, err := v.Submit(ctx, text)
	if err != nil {
		return text, err
	}
	c.Logger.Info("loaded graph", "file", path, "nodes", len(sub.Nodes), "edges", len(sub.Edges), "dropped", len(sub.Dropped))
	for _, r := range sub.Dropped {
		c.Logger.Debug("dropped one-way relation", "relation", r.String())
	}
	return text, nil
}
