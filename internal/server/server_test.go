package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/graphvis/pkg/viewer"
)

const sample = "A->B,C,D\nB->A,C,D\nC->A,B\nD->A,B"

func newTestServer(t *testing.T) (*httptest.Server, *viewer.Viewer) {
	t.Helper()
	v := viewer.New(context.Background(), viewer.Options{Tick: time.Hour, Seed: 1})
	t.Cleanup(func() { _ = v.Close() })

	s, err := New(v, Options{Sample: sample, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, v
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestIndex(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	for _, want := range []string{"Graph Visualization", "Adjacency List", "Generate Graph", "A-&gt;B,C,D"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestStatic(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, path := range []string{"/static/app.js", "/static/app.css"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	ts, v := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d, want 200", resp.StatusCode)
	}

	_ = v.Close()
	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("healthz after close = %d, want 503", resp.StatusCode)
	}
}

func TestPostGraph(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/graph", graphRequest{Text: sample + "\nX->Y"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var sub struct {
		Revision string              `json:"revision"`
		Nodes    []string            `json:"nodes"`
		Edges    []map[string]string `json:"edges"`
		Dropped  []map[string]string `json:"dropped"`
	}
	decodeBody(t, resp, &sub)

	if sub.Revision == "" || len(sub.Nodes) != 6 || len(sub.Edges) != 5 {
		t.Errorf("submission = %+v", sub)
	}
	if len(sub.Dropped) != 1 || sub.Dropped[0]["source"] != "X" || sub.Dropped[0]["target"] != "Y" {
		t.Errorf("dropped = %v", sub.Dropped)
	}
}

func TestPostGraphParseError(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/graph", graphRequest{Text: sample})

	resp := postJSON(t, ts.URL+"/api/graph", graphRequest{Text: "A->B\nB->A\nbad line"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var e errorResponse
	decodeBody(t, resp, &e)
	if e.Code != "PARSE_ERROR" || e.Line != 3 || e.Message == "" {
		t.Errorf("error = %+v", e)
	}

	// The earlier graph is still served.
	fr, err := http.Get(ts.URL + "/api/frame")
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Body.Close()
	var f viewer.Frame
	decodeBody(t, fr, &f)
	if len(f.Nodes) != 4 {
		t.Errorf("frame has %d nodes after failed submit, want 4", len(f.Nodes))
	}
}

func TestBadRequests(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"graph not json", "/api/graph", "{", http.StatusBadRequest},
		{"pointer unknown type", "/api/pointer", `{"type":"wheel"}`, http.StatusBadRequest},
		{"pointer unknown node", "/api/pointer", `{"type":"down","node":"nope"}`, http.StatusNotFound},
		{"viewport zero", "/api/viewport", `{"width":0,"height":10}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestPointerAndViewport(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/viewport", map[string]any{"width": 500, "height": 400, "ratio": 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("viewport status = %d", resp.StatusCode)
	}
	var vp viewportResponse
	decodeBody(t, resp, &vp)
	if vp.Ratio != viewer.MaxCameraRatio {
		t.Errorf("ratio = %v, want clamped %v", vp.Ratio, viewer.MaxCameraRatio)
	}

	sub := postJSON(t, ts.URL+"/api/graph", graphRequest{Text: sample})
	var s struct {
		Revision string `json:"revision"`
	}
	decodeBody(t, sub, &s)

	resp = postJSON(t, ts.URL+"/api/pointer", viewer.Event{Type: viewer.EventDown, Node: "B", Revision: viewer.Revision(s.Revision)})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("pointer status = %d, want 204", resp.StatusCode)
	}

	fr, err := http.Get(ts.URL + "/api/frame")
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Body.Close()
	var f viewer.Frame
	decodeBody(t, fr, &f)
	if f.Dragging != "B" || f.Width != 500 || f.Height != 400 {
		t.Errorf("frame dragging=%q size=%vx%v", f.Dragging, f.Width, f.Height)
	}
}

func TestExport(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/graph", graphRequest{Text: sample})

	tests := []struct {
		format      string
		status      int
		contentType string
	}{
		{"svg", http.StatusOK, "image/svg+xml"},
		{"png", http.StatusOK, "image/png"},
		{"json", http.StatusOK, "application/json"},
		{"dot", http.StatusOK, "text/vnd.graphviz; charset=utf-8"},
		{"gif", http.StatusBadRequest, "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/export?format=" + tt.format)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	v := viewer.New(context.Background(), viewer.Options{})
	defer v.Close()
	s, err := New(v, Options{Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a.String() })
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
