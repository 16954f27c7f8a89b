package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	errs "github.com/matzehuels/graphvis/pkg/errors"
	"github.com/matzehuels/graphvis/pkg/render"
	"github.com/matzehuels/graphvis/pkg/viewer"
)

// maxBodyBytes bounds request bodies; graph text is the largest payload.
const maxBodyBytes = errs.MaxTextBytes + 4096

// =============================================================================
// Request and response bodies
// =============================================================================

type graphRequest struct {
	Text string `json:"text"`
}

type viewportRequest struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Ratio  *float64 `json:"ratio,omitempty"`
}

type viewportResponse struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Title  string
		Sample string
	}{
		Title:  "Graph Visualization",
		Sample: s.sample,
	}
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.viewer.Done():
		s.respondError(w, r, viewer.ErrClosed)
	default:
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleGraph handles POST /api/graph.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	sub, err := s.viewer.Submit(r.Context(), req.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sub)
}

// handleFrame handles GET /api/frame.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	f, err := s.viewer.Frame(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, f)
}

// handlePointer handles POST /api/pointer.
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var ev viewer.Event
	if err := s.decode(w, r, &ev); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.viewer.Pointer(r.Context(), ev); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleViewport handles POST /api/viewport.
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.viewer.Resize(r.Context(), req.Width, req.Height); err != nil {
		s.respondError(w, r, err)
		return
	}
	// A missing or non-positive ratio keeps the current zoom.
	var ratio float64
	if req.Ratio != nil {
		ratio = *req.Ratio
	}
	applied, err := s.viewer.Zoom(r.Context(), ratio)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := viewportResponse{Width: req.Width, Height: req.Height, Ratio: applied}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleExport handles GET /api/export?format=svg|png|json|dot.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(render.FormatSVG)
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	data, err := s.viewer.Export(r.Context(), format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "graph."+string(format)))
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	resp := errorResponse{
		Code:    string(code),
		Message: errs.UserMessage(err),
	}
	var perr *adjlist.ParseError
	if errors.As(err, &perr) {
		resp.Line = perr.Line
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
	}
	s.respondJSON(w, status, resp)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidEngine:
		return http.StatusBadRequest
	case errs.ErrCodeParse:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errs.ErrCodeClosed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func contentType(f render.Format) string {
	switch f {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
