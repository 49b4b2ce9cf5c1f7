package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init assembles the pipeline.
//
// The fixed stages wrap the router instead of being installed with Use, so
// they run for every request even when no route is registered.
func (h *Handler) Init() http.Handler {
	router := chi.NewRouter()
	for _, route := range h.routes {
		router.Method(route.Verb, route.Pattern, h.actionHandler(route.Action))
	}
	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.checkHTTPMethod)

	stages := chi.Middlewares{
		withRouteContext(router),
		h.withTraceID,
		h.withLiveness,
		h.withMetrics,
		h.withLogging,
		middleware.Recoverer,
		h.withDocs,
	}
	if len(h.authorization) > 0 {
		stages = append(stages, h.withAuthorization(router))
	}
	stages = append(stages, h.middlewares...)

	return stages.Handler(router)
}

// withRouteContext attaches the routing context before the fixed stages run.
// The router reuses it, so stages wrapping the router see the matched
// pattern once the request returns.
func withRouteContext(routes chi.Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if chi.RouteContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}
			rctx := chi.NewRouteContext()
			rctx.Routes = routes
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx)))
		})
	}
}

// routingPath is the path the router dispatches on: the escaped path when
// the request carries one, the decoded path otherwise.
func routingPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return rctx.RoutePath
	}
	if r.URL.RawPath != "" {
		return r.URL.RawPath
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}
