package http

import (
	"net/http"
	"time"

	"github.com/carepool/screening-matching-service/internal/delivery/http/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the matching endpoints, health check and Prometheus
// scrape endpoint.
func NewRouter(matchingHandler *handlers.MatchingHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/matching", func(r chi.Router) {
		r.Post("/run", matchingHandler.HandleRunMatching)
		r.Get("/executions/{reference}", matchingHandler.HandleGetExecution)
	})

	return r
}
