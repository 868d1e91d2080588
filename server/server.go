// Package server exposes a running visualisation over HTTP: a JSON view of
// the graph with simulated positions, an SVG snapshot, and an endpoint that
// merges uploaded graph data into the live graph.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/ingest"
	"github.com/TFMV/echograph3d/models"
	"github.com/TFMV/echograph3d/physics"
	"github.com/TFMV/echograph3d/render"
	"github.com/TFMV/echograph3d/scene"
)

// maxUpload bounds the size of an uploaded graph
const maxUpload = 10 << 20

// Poster runs fn on the goroutine that owns the graph and the coordinator.
type Poster interface {
	Post(ctx context.Context, fn func()) error
}

// Config for the server
type Config struct {
	Addr   string
	Poster Poster
	Graph  *graph.Graph
	Layout physics.Simulator
	Scene  scene.Container[scene.Object]
	Camera *scene.Camera
	// Wake is called on the owning goroutine after a node was moved by
	// hand, so the render loop resumes stepping
	Wake   func()
	Width  int
	Height int
	Logger *slog.Logger
}

// Server serves a live view of one graph
type Server struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a server. Every handler reads or mutates shared state only
// through cfg.Poster.
func New(cfg Config) *Server {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{cfg: cfg, logger: logger}
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/graph", s.handleAPIGraph)
	mux.HandleFunc("GET /api/nodes", s.handleFindNodes)
	mux.HandleFunc("GET /api/nodes/{id}", s.handleNode)
	mux.HandleFunc("PUT /api/nodes/{id}/position", s.handlePosition)
	mux.HandleFunc("/snapshot.svg", s.handleSnapshot)
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// run executes fn on the owning goroutine and waits for it
func (s *Server) run(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if err := s.cfg.Poster.Post(ctx, func() { done <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleIndex renders a page that refreshes the snapshot
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>echograph3d</title>
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
    img { background: white; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
  </style>
</head>
<body>
  <img id="view" src="/snapshot.svg">
  <script>
    setInterval(function () {
      document.getElementById('view').src = '/snapshot.svg?t=' + Date.now();
    }, 1000);
  </script>
</body>
</html>
`)
}

// GraphView is the JSON form of the live graph
type GraphView struct {
	Nodes []NodeView `json:"nodes"`
	Links []LinkView `json:"links"`
}

// NodeView is a node with its simulated position
type NodeView struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Pos   models.Vector3 `json:"pos"`
}

// LinkView is a link between two nodes
type LinkView struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

func (s *Server) view() GraphView {
	v := GraphView{Nodes: []NodeView{}, Links: []LinkView{}}
	s.cfg.Graph.ForEachNode(func(n *models.Node) bool {
		v.Nodes = append(v.Nodes, NodeView{ID: n.ID, Label: n.Label, Pos: s.cfg.Layout.Position(n.ID)})
		return true
	})
	s.cfg.Graph.ForEachLink(func(l *models.Link) bool {
		v.Links = append(v.Links, LinkView{ID: l.ID, Source: l.FromID, Target: l.ToID, Weight: l.Weight})
		return true
	})
	return v
}

// handleAPIGraph returns the graph on GET and merges an uploaded graph on
// POST. The format query parameter selects the parser for uploads.
func (s *Server) handleAPIGraph(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var v GraphView
		err := s.run(r.Context(), func() error {
			v = s.view()
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		s.writeJSON(w, v)

	case http.MethodPost:
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "json"
		}
		processor, err := ingest.GetProcessor(format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
		if err != nil {
			http.Error(w, "error reading body: "+err.Error(), http.StatusBadRequest)
			return
		}
		upload, err := processor.ProcessData(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.run(r.Context(), func() error { return Merge(s.cfg.Graph, upload) }); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Info("merged upload", "format", format, "nodes", upload.NodeCount(), "links", upload.LinkCount())
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// NodeDetail is a node with the ids of its neighbours
type NodeDetail struct {
	NodeView
	Neighbors []string `json:"neighbors"`
}

// positioner is implemented by layouts that let a node be moved by hand
type positioner interface {
	SetPosition(id string, pos models.Vector3) bool
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

// handleFindNodes lists nodes whose label contains the q query parameter,
// ignoring case
func (s *Server) handleFindNodes(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	nodes := []NodeView{}
	err := s.run(r.Context(), func() error {
		matches := s.cfg.Graph.FilterNodes(func(n *models.Node) bool {
			return strings.Contains(strings.ToLower(n.Label), q)
		})
		for _, n := range matches {
			nodes = append(nodes, NodeView{ID: n.ID, Label: n.Label, Pos: s.cfg.Layout.Position(n.ID)})
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, nodes)
}

// handleNode returns one node and its neighbours
func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var detail NodeDetail
	err := s.run(r.Context(), func() error {
		neighbors, err := s.cfg.Graph.Neighbors(id)
		if err != nil {
			return err
		}
		n, _ := s.cfg.Graph.GetNode(id)
		detail = NodeDetail{
			NodeView:  NodeView{ID: n.ID, Label: n.Label, Pos: s.cfg.Layout.Position(n.ID)},
			Neighbors: neighbors,
		}
		if detail.Neighbors == nil {
			detail.Neighbors = []string{}
		}
		return nil
	})
	switch {
	case errors.Is(err, graph.ErrNodeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		s.writeJSON(w, detail)
	}
}

// handlePosition moves a node to the posted position and lets the layout
// settle again from there
func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.cfg.Layout.(positioner)
	if !ok {
		http.Error(w, "layout does not support positioning", http.StatusNotImplemented)
		return
	}

	var pos models.Vector3
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpload)).Decode(&pos); err != nil {
		http.Error(w, "error parsing position: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	var found bool
	if err := s.run(r.Context(), func() error {
		found = layout.SetPosition(id, pos)
		if found && s.cfg.Wake != nil {
			s.cfg.Wake()
		}
		return nil
	}); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if !found {
		http.Error(w, "node not found: "+id, http.StatusNotFound)
		return
	}
	s.logger.Debug("node moved", "id", id, "pos", pos)
	w.WriteHeader(http.StatusNoContent)
}

// handleSnapshot renders the scene as SVG
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.run(r.Context(), func() error {
		return render.NewSVGRenderer(&buf, float64(s.cfg.Width), float64(s.cfg.Height)).Render(s.cfg.Scene, s.cfg.Camera)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("failed to write snapshot", "error", err)
	}
}

// Merge copies the nodes and links of src into dst as one change batch.
// Existing nodes get the uploaded data; links are always added.
func Merge(dst, src *graph.Graph) error {
	dst.BeginUpdate()
	var err error
	src.ForEachNode(func(n *models.Node) bool {
		var node *models.Node
		node, err = dst.AddNode(n.ID, n.Data)
		if err == nil {
			node.Label = n.Label
		}
		return err == nil
	})
	if err == nil {
		src.ForEachLink(func(l *models.Link) bool {
			_, err = dst.AddLink(l.FromID, l.ToID, l.Data, graph.WithWeight(l.Weight))
			return err == nil
		})
	}
	return errors.Join(err, dst.EndUpdate())
}
