package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/metrics"
	"github.com/MKhiriev/go-service-sdk/models"
)

func TestInit_CustomMiddlewaresRunInOrderAfterAuthorization(t *testing.T) {
	var (
		mu    sync.Mutex
		trace []string
	)
	record := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				trace = append(trace, name)
				mu.Unlock()
				next.ServeHTTP(w, r)
			})
		}
	}

	h := NewHandler(Options{
		Logger: logger.Nop(),
		Routes: []Route{
			{Verb: http.MethodGet, Pattern: "/open", Action: jsonAction("ok")},
			{Verb: http.MethodGet, Pattern: "/closed", Action: jsonAction("ok")},
		},
		Authorization: models.Authorization{"GET /closed": {"x"}},
		Auth:          staticAuth{key: testSignKey},
		Middlewares:   []func(http.Handler) http.Handler{record("first"), record("second")},
	})
	router := h.Init()

	rr := serve(t, router, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"first", "second"}, trace)

	trace = nil
	rr = serve(t, router, httptest.NewRequest(http.MethodGet, "/closed", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, trace, "custom middlewares must not run for rejected requests")
}

func TestInit_PanicIsRecovered(t *testing.T) {
	h := NewHandler(Options{
		Logger: logger.Nop(),
		Routes: []Route{{Verb: http.MethodGet, Pattern: "/panic", Action: models.ActionFunc{
			Handle: func(*http.Request) (*models.Output, error) { panic("boom") },
		}}},
	})

	rr := serve(t, h.Init(), httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestInit_PathParamsReachAction(t *testing.T) {
	h := NewHandler(Options{
		Logger: logger.Nop(),
		Routes: []Route{{Verb: http.MethodGet, Pattern: "/orders/{id}", Action: models.ActionFunc{
			Handle: func(r *http.Request) (*models.Output, error) {
				return models.OK(chi.URLParam(r, "id")), nil
			},
		}}},
	})

	rr := serve(t, h.Init(), httptest.NewRequest(http.MethodGet, "/orders/42", nil))
	assert.JSONEq(t, `"42"`, rr.Body.String())
}

func TestInit_FixedStagesWithoutRoutes(t *testing.T) {
	state := appstate.New()
	state.SetInitialized()

	router := NewHandler(Options{
		Name:    "orders",
		State:   state,
		Metrics: metrics.New(),
		Logger:  logger.Nop(),
	}).Init()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "root", path: RootPath, wantStatus: http.StatusOK},
		{name: "isalive", path: IsAlivePath, wantStatus: http.StatusOK},
		{name: "metrics", path: MetricsPath, wantStatus: http.StatusOK},
		{name: "docs", path: DocsPath, wantStatus: http.StatusOK},
		{name: "docs redirect", path: DocsRedirectPath, wantStatus: http.StatusMovedPermanently},
		{name: "anything else", path: "/orders", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, router, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
		})
	}
}
