// internal/server/metrics.go
//
// Prometheus scrape endpoint.
//
// Context
//   When `metrics.listen_addr` is set, cmd/harmony serves this chi router
//   through Serve.  /metrics exposes the global registry, where
//   internal/metrics registers every collector; /healthz answers “ok”.
//

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes /metrics (Prometheus text format) and /healthz.
func MetricsHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}
