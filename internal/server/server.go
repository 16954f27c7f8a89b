// Package server serves the interactive graph page and its JSON API.
//
// The page posts adjacency lists to /api/graph, polls /api/frame for node
// positions and forwards pointer and resize events. Every request goes
// through the viewer's event loop, so handlers never touch the graph
// directly.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphvis/pkg/viewer"
)

//go:embed web
var webFS embed.FS

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Sample is the adjacency list the page starts with.
	Sample string

	Logger *log.Logger
}

// Server routes HTTP requests to a viewer.
type Server struct {
	viewer *viewer.Viewer
	sample string
	logger *log.Logger
	page   *template.Template
	static http.Handler
}

// New creates a server in front of v.
func New(v *viewer.Viewer, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	page, err := template.ParseFS(webFS, "web/index.html.tmpl")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, err
	}
	return &Server{
		viewer: v,
		sample: opts.Sample,
		logger: opts.Logger,
		page:   page,
		static: http.StripPrefix("/static/", http.FileServer(http.FS(static))),
	}, nil
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/static/*", s.static.ServeHTTP)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/graph", s.handleGraph)
		r.Get("/frame", s.handleFrame)
		r.Post("/pointer", s.handlePointer)
		r.Post("/viewport", s.handleViewport)
		r.Get("/export", s.handleExport)
	})

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. ready, if non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
