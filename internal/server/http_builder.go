package server

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	handlerhttp "github.com/MKhiriev/go-service-sdk/internal/handler/http"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/metrics"
	"github.com/MKhiriev/go-service-sdk/models"
)

var supportedVerbs = []string{
	http.MethodConnect, http.MethodDelete, http.MethodGet, http.MethodHead,
	http.MethodOptions, http.MethodPatch, http.MethodPost, http.MethodPut, http.MethodTrace,
}

// HTTPServerBuilder collects the configuration of one logical HTTP server.
//
// Registration methods may be called in any order until [HTTPServerBuilder.Build]
// consumes the builder.
type HTTPServerBuilder struct {
	mu sync.Mutex

	appName    string
	appVersion string
	started    time.Time

	address string

	routes        []handlerhttp.Route
	authorization models.Authorization
	authErrors    models.AuthErrorFactory
	auth          config.AuthSettings
	middlewares   []func(http.Handler) http.Handler
	errorStatuses map[error]int
	tlsConfig     *tls.Config
	tracer        trace.Tracer

	consumed bool

	state   *appstate.AppStates
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHTTPServerBuilder returns a builder listening on
// [config.DefaultHTTPAddress].
func NewHTTPServerBuilder(appName, appVersion string, state *appstate.AppStates, m *metrics.Metrics, logger *logger.Logger) *HTTPServerBuilder {
	return &HTTPServerBuilder{
		appName:       appName,
		appVersion:    appVersion,
		started:       time.Now(),
		address:       config.DefaultHTTPAddress,
		authorization: make(models.Authorization),
		authErrors:    models.DefaultAuthErrors{},
		errorStatuses: make(map[error]int),
		state:         state,
		metrics:       m,
		logger:        logger,
	}
}

// UpdateListenEndpoint sets the TCP listen address.
func (b *HTTPServerBuilder) UpdateListenEndpoint(ip string, port int) *HTTPServerBuilder {
	return b.SetListenAddress(net.JoinHostPort(ip, strconv.Itoa(port)))
}

// SetListenAddress sets the TCP listen address in "host:port" form.
func (b *HTTPServerBuilder) SetListenAddress(address string) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.address = address
	return b
}

// ListenAddress returns the configured TCP listen address.
func (b *HTTPServerBuilder) ListenAddress() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.address
}

func (b *HTTPServerBuilder) RegisterGet(route string, action models.Action) *HTTPServerBuilder {
	return b.Register(http.MethodGet, route, action)
}

func (b *HTTPServerBuilder) RegisterPost(route string, action models.Action) *HTTPServerBuilder {
	return b.Register(http.MethodPost, route, action)
}

func (b *HTTPServerBuilder) RegisterPut(route string, action models.Action) *HTTPServerBuilder {
	return b.Register(http.MethodPut, route, action)
}

func (b *HTTPServerBuilder) RegisterDelete(route string, action models.Action) *HTTPServerBuilder {
	return b.Register(http.MethodDelete, route, action)
}

func (b *HTTPServerBuilder) RegisterOptions(route string, action models.Action) *HTTPServerBuilder {
	return b.Register(http.MethodOptions, route, action)
}

// Register adds a route. Duplicates are accepted here and rejected by
// Build.
func (b *HTTPServerBuilder) Register(verb, route string, action models.Action) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes = append(b.routes, handlerhttp.Route{Verb: strings.ToUpper(verb), Pattern: route, Action: action})
	return b
}

// SetAuthorization merges auth into the authorization map. Claims of a
// route that is already protected are unioned.
func (b *HTTPServerBuilder) SetAuthorization(auth models.Authorization) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()

	normalized := make(models.Authorization, len(auth))
	for key, claims := range auth {
		verb, route, _ := strings.Cut(key, " ")
		normalized[models.RouteKey(verb, route)] = claims
	}
	b.authorization.Merge(normalized)
	return b
}

// SetAuthSettings sets the token verification parameters.
func (b *HTTPServerBuilder) SetAuthSettings(auth config.AuthSettings) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auth = auth
	return b
}

// SetAuthErrorFactory replaces the failures returned by authorization.
func (b *HTTPServerBuilder) SetAuthErrorFactory(f models.AuthErrorFactory) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f != nil {
		b.authErrors = f
	}
	return b
}

// RegisterCustomMiddleware appends mw after the fixed pipeline stages.
func (b *HTTPServerBuilder) RegisterCustomMiddleware(mw func(http.Handler) http.Handler) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.middlewares = append(b.middlewares, mw)
	return b
}

// MapError responds with status whenever an action returns an error
// wrapping err.
func (b *HTTPServerBuilder) MapError(err error, status int) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errorStatuses[err] = status
	return b
}

// SetTLSConfig serves every binding over TLS.
func (b *HTTPServerBuilder) SetTLSConfig(cfg *tls.Config) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tlsConfig = cfg
	return b
}

// SetTracer starts a server span for every request.
func (b *HTTPServerBuilder) SetTracer(tracer trace.Tracer) *HTTPServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tracer = tracer
	return b
}

// Build consumes the builder and returns one server per transport binding,
// all sharing the same pipeline. A builder rejected with ErrDuplicateRoute
// or ErrInvalidRoute is not consumed, so a later Build reports the same
// validation failure instead of ErrBuilderConsumed.
func (b *HTTPServerBuilder) Build() ([]*HTTPServer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return nil, ErrBuilderConsumed
	}

	if err := validateRoutes(b.routes); err != nil {
		return nil, err
	}

	handler, err := b.buildHandler()
	if err != nil {
		return nil, err
	}
	b.consumed = true

	bindings, err := Bindings(ProtocolHTTP, b.address, b.appName)
	if err != nil {
		return nil, fmt.Errorf("error resolving http bindings: %w", err)
	}

	servers := make([]*HTTPServer, 0, len(bindings))
	for _, binding := range bindings {
		servers = append(servers, newHTTPServer(binding, handler, b.tlsConfig, b.state, b.logger))
	}

	b.logger.Info().
		Int("routes", len(b.routes)).
		Int("bindings", len(bindings)).
		Msg("http servers built")

	return servers, nil
}

func (b *HTTPServerBuilder) buildHandler() (h http.Handler, err error) {
	// chi panics on conflicting patterns.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidRoute, r)
		}
	}()

	return handlerhttp.NewHandler(handlerhttp.Options{
		Name:          b.appName,
		Version:       b.appVersion,
		Started:       b.started,
		State:         b.state,
		Metrics:       b.metrics,
		Logger:        b.logger,
		Tracer:        b.tracer,
		Routes:        b.routes,
		Authorization: b.authorization,
		AuthErrors:    b.authErrors,
		Auth:          b.auth,
		Middlewares:   b.middlewares,
		ErrorStatuses: b.errorStatuses,
	}).Init(), nil
}

func validateRoutes(routes []handlerhttp.Route) error {
	seen := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		key := models.RouteKey(r.Verb, r.Pattern)

		if !slices.Contains(supportedVerbs, r.Verb) {
			return fmt.Errorf("%w: unsupported verb in %q", ErrInvalidRoute, key)
		}
		if !strings.HasPrefix(r.Pattern, "/") {
			return fmt.Errorf("%w: route %q must begin with '/'", ErrInvalidRoute, key)
		}
		if r.Action == nil {
			return fmt.Errorf("%w: route %q has no action", ErrInvalidRoute, key)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
