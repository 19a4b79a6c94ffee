// Package gateway exposes the skill graph and planner over HTTP.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zeon-ai/zeon/internal/catalog"
	"github.com/zeon-ai/zeon/internal/composition"
	"github.com/zeon-ai/zeon/internal/events"
	"github.com/zeon-ai/zeon/internal/gateway/ws"
	"github.com/zeon-ai/zeon/internal/planner"
)

// Config holds the server's collaborators.
type Config struct {
	Host    string
	Port    int
	Bus     *events.Bus
	Catalog *catalog.Catalog
	Store   *composition.Store
	Planner *planner.Planner
	Reload  func(ctx context.Context) error
}

// Server is the Zeon gateway HTTP server.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	catalog    *catalog.Catalog
	store      *composition.Store
	planner    *planner.Planner
	reload     func(ctx context.Context) error
}

// NewServer creates a new gateway server.
func NewServer(cfg Config) *Server {
	s := &Server{
		hub:     ws.NewHub(cfg.Bus),
		bus:     cfg.Bus,
		catalog: cfg.Catalog,
		store:   cfg.Store,
		planner: cfg.Planner,
		reload:  cfg.Reload,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/ws", s.hub.ServeWS)

	r.Route("/api/skills", func(r chi.Router) {
		r.Get("/", s.handleListSkills)
		r.Get("/dag", s.handleDAG)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/search", s.handleSearch)
		r.Get("/{name}", s.handleSkillDetails)
		r.Get("/{name}/details", s.handleSkillDetails)
		r.Get("/{name}/composition", s.handleSkillComposition)
		r.Get("/{name}/execution-path", s.handleExecutionPath)
	})

	r.Get("/api/export/dag", s.handleDAG)
	r.Get("/api/workflows/create", s.handleCreateWorkflow)

	r.Post("/api/reload", s.handleReload)
	r.Post("/api/plan", s.handlePlan)
	r.Post("/api/plan/validate", s.handleValidatePlan)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: r,
	}

	return s
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("Zeon gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	view := s.store.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"total_skills": view.Catalog.Len(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 50
	if limitStr != "" {
		fmt.Sscanf(limitStr, "%d", &limit)
	}

	history := s.bus.History(limit)

	type eventJSON struct {
		ID        string             `json:"id"`
		Type      string             `json:"type"`
		Timestamp string             `json:"timestamp"`
		Source    events.EventSource `json:"source"`
		Payload   map[string]any     `json:"payload"`
	}

	result := make([]eventJSON, len(history))
	for i, e := range history {
		result[i] = eventJSON{
			ID:        e.ID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Source:    e.Source,
			Payload:   e.Payload,
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
