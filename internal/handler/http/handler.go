package http

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/metrics"
	"github.com/MKhiriev/go-service-sdk/models"
)

// Route binds an action to a verb and a chi route pattern.
type Route struct {
	Verb    string
	Pattern string
	Action  models.Action
}

// Options configures a [Handler].
type Options struct {
	Name    string
	Version string
	Started time.Time

	State   *appstate.AppStates
	Metrics *metrics.Metrics
	Logger  *logger.Logger

	// Tracer starts one server span per request. Nil disables tracing.
	Tracer trace.Tracer

	Routes []Route

	// Authorization enables the authorization stage when not empty.
	Authorization models.Authorization
	AuthErrors    models.AuthErrorFactory
	Auth          config.AuthSettings

	// Middlewares run after the fixed chain, in order.
	Middlewares []func(http.Handler) http.Handler

	// ErrorStatuses maps sentinel action errors to response statuses.
	ErrorStatuses map[error]int
}

// Handler is the request pipeline of one logical HTTP server.
type Handler struct {
	name    string
	version string
	started time.Time

	state   *appstate.AppStates
	metrics *metrics.Metrics
	tracer  trace.Tracer

	routes        []Route
	authorization models.Authorization
	authErrors    models.AuthErrorFactory
	auth          config.AuthSettings
	middlewares   []func(http.Handler) http.Handler
	errorStatuses map[error]int

	docs []byte

	logger *logger.Logger
}

func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.State == nil {
		opts.State = appstate.New()
	}
	if opts.AuthErrors == nil {
		opts.AuthErrors = models.DefaultAuthErrors{}
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("")
	}
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}

	h := &Handler{
		name:          opts.Name,
		version:       opts.Version,
		started:       opts.Started,
		state:         opts.State,
		metrics:       opts.Metrics,
		tracer:        opts.Tracer,
		routes:        opts.Routes,
		authorization: opts.Authorization,
		authErrors:    opts.AuthErrors,
		auth:          opts.Auth,
		middlewares:   opts.Middlewares,
		errorStatuses: opts.ErrorStatuses,
		logger:        opts.Logger,
	}
	h.docs = h.buildDocs()

	h.logger.Info().Int("routes", len(h.routes)).Msg("http handler created")
	return h
}
