// Package api provides the HTTP REST API for running and inspecting
// investigations.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/events"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// requestTimeout bounds a single API request, generously enough for the
// longest allowed investigation.
const requestTimeout = 11 * time.Minute

// Investigator runs investigations. Satisfied by council.Orchestrator.
type Investigator interface {
	Investigate(ctx context.Context, query string, session core.SessionContext, cfg core.CouncilConfig) (*core.CouncilResult, error)
}

// Server provides HTTP endpoints over the investigation orchestrator.
type Server struct {
	router       chi.Router
	investigator Investigator
	registry     core.PanelRegistry
	store        core.RunStore
	bus          *events.Bus
	log          *logging.Logger
	origins      []string
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(log *logging.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// WithStore enables the run-history endpoints.
func WithStore(store core.RunStore) ServerOption {
	return func(s *Server) { s.store = store }
}

// WithBus enables the SSE event stream.
func WithBus(bus *events.Bus) ServerOption {
	return func(s *Server) { s.bus = bus }
}

// WithAllowedOrigins restricts CORS origins.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) { s.origins = origins }
}

// NewServer creates the API server.
func NewServer(investigator Investigator, registry core.PanelRegistry, opts ...ServerOption) *Server {
	s := &Server{
		investigator: investigator,
		registry:     registry,
		log:          logging.NewNop(),
		origins:      []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.loggingMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/investigations", func(r chi.Router) {
			r.Post("/", s.handleCreateInvestigation)
			r.Get("/", s.handleListInvestigations)
			r.Get("/{runID}", s.handleGetInvestigation)
		})
		r.Get("/panels", s.handleListPanels)
		r.Get("/events", s.handleSSE)
	})

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type panelInfo struct {
	Name   string          `json:"name"`
	Signal core.SignalType `json:"signal"`
}

func (s *Server) handleListPanels(w http.ResponseWriter, r *http.Request) {
	panels := s.registry.Panels()
	infos := make([]panelInfo, 0, len(panels))
	for _, p := range panels {
		infos = append(infos, panelInfo{Name: p.Name(), Signal: p.Signal()})
	}
	respondJSON(w, http.StatusOK, infos)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
