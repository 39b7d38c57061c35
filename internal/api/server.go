// Package api serves the analysis pipeline over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/promiscuity/pkg/pipeline"
)

// Config bounds what a single request may ask for.
type Config struct {
	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64
	// MaxTimeout caps, and defaults, the per-request search timeout.
	MaxTimeout time.Duration
	// Defaults fill options the request leaves unset.
	Defaults pipeline.Options
}

// DefaultConfig returns limits suitable for a shared server.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes: 4 << 20,
		MaxTimeout:   30 * time.Second,
	}
}

// Server is the HTTP API server for promiscuity.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	log    *log.Logger
	cfg    Config
}

// NewServer creates and configures the HTTP server.
func NewServer(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	s := &Server{
		runner: runner,
		log:    logger,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/bound", s.handleBound)
	})

	s.router = r
}
