package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eldtechnologies/keywordbot/internal/api/middleware"
	"github.com/eldtechnologies/keywordbot/internal/handlers"
)

// maxBodyBytes bounds webhook payloads; LINE batches stay well below this.
const maxBodyBytes = 1 << 20

// NewRouter creates and configures the HTTP router.
func NewRouter(deps handlers.Deps) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(chimw.Recoverer)

	h := handlers.NewHandler(deps)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)
	if deps.ExposeKeywords {
		r.Get("/keywords", h.ListKeywords)
	}

	r.Post(handlers.CallbackPath, h.Callback)

	return r
}
