// Package web serves the browser editor: an embedded page that draws the tree
// and a JSON API over one server-held editing session.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cmdtree/internal/codegen"
	"cmdtree/internal/editor"
	"cmdtree/internal/model"
)

//go:embed static/*
var staticFS embed.FS

// Layout is handed to the page's renderer.
type Layout struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Angle  float64 `json:"angle"`
	Radius float64 `json:"radius"`
}

// DefaultLayout is the canvas and radial layout used when none is configured.
var DefaultLayout = Layout{Width: 800, Height: 400, Angle: 360, Radius: 300}

// Server owns the editing session. HTTP handlers run concurrently, so every
// controller call happens under mu.
type Server struct {
	mu     sync.Mutex
	ctrl   *editor.Controller
	layout Layout

	// Observer state, written by the controller while mu is held.
	tree      model.Command
	form      formFields
	output    string
	exportErr error
}

type formFields struct {
	Name  string `json:"name"`
	Use   string `json:"use"`
	Short string `json:"short"`
}

// New registers a session over ctrl.
func New(ctrl *editor.Controller, layout Layout) *Server {
	s := &Server{ctrl: ctrl, layout: layout}
	s.mu.Lock()
	ctrl.SetObserver(s)
	ctrl.Render()
	s.mu.Unlock()
	return s
}

func (s *Server) TreeChanged(tree model.Command) {
	s.tree = tree
}

func (s *Server) SelectionChanged(_ model.NodeID, name, use, short string) {
	s.form = formFields{Name: name, Use: use, Short: short}
}

func (s *Server) ExportDone(output string, err error) {
	s.exportErr = err
	if err == nil {
		s.output = output
	}
}

// Handler returns the routes of the editor.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/select", s.handleSelect)
	mux.HandleFunc("POST /api/commands", s.handleAddCommand)
	mux.HandleFunc("POST /api/flag-form", s.handleOpenFlagForm)
	mux.HandleFunc("DELETE /api/flag-form", s.handleCloseFlagForm)
	mux.HandleFunc("POST /api/flags", s.handleAddFlag)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("GET /api/preview", s.handlePreview)
	mux.HandleFunc("GET /api/flag-types", handleFlagTypes)
	mux.HandleFunc("GET /api/help", handleHelp)
	mux.Handle("/generate", codegen.Handler())

	return logRequests(mux)
}

// Serve runs the editor on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	fmt.Printf("Starting cmdtree web server at http://%s\n", ln.Addr())
	fmt.Printf("Go to http://%s in your browser.\n", ln.Addr())
	return s.Serve(ctx, ln)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps editor errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrNoSelection):
		status = http.StatusConflict
	case errors.Is(err, editor.ErrUnknownNode), errors.Is(err, model.ErrBadPath):
		status = http.StatusNotFound
	case errors.Is(err, editor.ErrNoTransport):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
