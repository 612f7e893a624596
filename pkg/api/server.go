package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP routing tree for the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, s.metrics))

		// Health check
		r.Get("/health", s.instrument("GET", "/api/v1/health", s.handleHealth))

		// Entry operations
		r.Post("/entries", s.instrument("POST", "/api/v1/entries", s.handleIngest))
		r.Get("/entries/{id}", s.instrument("GET", "/api/v1/entries/{id}", s.handleGetEntry))
		r.Get("/entries", s.instrument("GET", "/api/v1/entries", s.handleListEntries))

		// Diagnostics
		r.Get("/stats", s.instrument("GET", "/api/v1/stats", s.handleStats))
	})

	return r
}

func (s *Server) instrument(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return handler
	}
	return s.metrics.InstrumentHandler(method, endpoint, handler)
}

// StartServer starts the HTTP server with all routes configured
func StartServer(store EntryStore, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(store, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Printf("skald API listening on %s", addr)
	return http.ListenAndServe(addr, server.Router())
}
