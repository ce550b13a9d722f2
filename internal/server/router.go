package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/claimsight/claim-analyzer/internal/export"
	"github.com/claimsight/claim-analyzer/internal/pipeline"
	"github.com/claimsight/claim-analyzer/internal/repository"
)

// Server holds the HTTP surface over the analysis pipeline.
type Server struct {
	processor *pipeline.Processor
	claims    repository.ClaimRepository
	exporter  *export.Service
	db        *repository.DB
	logger    *slog.Logger
}

func New(processor *pipeline.Processor, claims repository.ClaimRepository, exporter *export.Service, db *repository.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{processor: processor, claims: claims, exporter: exporter, db: db, logger: logger}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/claims", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/", s.handleListClaims)
		r.Get("/export", s.handleExport)
		r.Get("/{id}", s.handleGetClaim)
	})

	return r
}
