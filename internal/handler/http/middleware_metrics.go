package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// MetricsPath serves the Prometheus exposition.
const MetricsPath = "/metrics"

// UnmatchedRoute is the path label of requests no route matched.
const UnmatchedRoute = "NotFound"

// withMetrics serves MetricsPath and records every other request that
// reaches it. The path label is the matched route pattern, or
// UnmatchedRoute, which keeps arbitrary paths out of the label set.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	if h.metrics == nil {
		return next
	}
	exposition := h.metrics.Handler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == MetricsPath {
			exposition.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		path := UnmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		h.metrics.ObserveHTTP(r.Method, path, rw.Status(), time.Since(start))
	})
}
