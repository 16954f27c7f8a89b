// Package cli implements the graphvis command-line interface.
//
// The commands read adjacency lists ("A->B,C" per line), keep only the
// relations declared in both directions and either render the laid-out graph
// to files or serve it in the browser for interactive dragging. The CLI is
// built with cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - parse: Report nodes, mutual edges and dropped one-way relations
//   - render: Lay out and write SVG, PNG, DOT or node-link JSON files
//   - serve: Run the interactive browser view, optionally following a file
//   - inspect: Browse nodes, one-way relations and components in a TUI
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// --verbose (-v) switches to debug level and routes the pipeline, cache,
// viewer and server hooks to the logger. Commands reach the logger through
// their context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a timestamped logger ("15:04:05.00") writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a completion message with the time elapsed since it was
// created, rounded to the millisecond.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or the charm
// default when the command ran without the root pre-run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
