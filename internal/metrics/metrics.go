// Package metrics owns the Prometheus registry of a service and the request
// series shared by the HTTP pipeline and the gRPC interceptors.
//
// The registry is created once per process and injected by pointer into
// every component that records into it; nothing here touches the
// prometheus default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
)

// Metric names of the request series.
const (
	RequestCount                  = "http_request_count"
	FailedRequestCount            = "http_failed_request_count"
	RequestMilisDurationSum       = "http_request_milis_duration_sum"
	FailedRequestMilisDurationSum = "http_failed_request_milis_duration_sum"
	RequestDurationSec            = "http_request_duration_sec"
	FailedRequestDurationSec      = "http_failed_request_duration_sec"
)

// GRPCMethodLabel is the method label used for every gRPC call.
const GRPCMethodLabel = "GRPC"

var (
	commonLabels = []string{"method", "path"}
	failedLabels = []string{"method", "path", "status_code"}
)

// Metrics is the process-wide metrics sink.
type Metrics struct {
	registry *prometheus.Registry

	requestCount          *prometheus.CounterVec
	requestMilisSum       *prometheus.CounterVec
	requestDuration       *prometheus.HistogramVec
	failedRequestCount    *prometheus.CounterVec
	failedRequestMilisSum *prometheus.CounterVec
	failedRequestDuration *prometheus.HistogramVec
}

// New creates a registry with Go runtime and process collectors and the
// request series registered on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: RequestCount,
			Help: "Number of handled requests, including not-found responses",
		}, commonLabels),
		requestMilisSum: factory.NewCounterVec(prometheus.CounterOpts{
			Name: RequestMilisDurationSum,
			Help: "Sum of handled request durations in milliseconds",
		}, commonLabels),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    RequestDurationSec,
			Help:    "Duration of handled requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, commonLabels),
		failedRequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: FailedRequestCount,
			Help: "Number of failed requests by status code",
		}, failedLabels),
		failedRequestMilisSum: factory.NewCounterVec(prometheus.CounterOpts{
			Name: FailedRequestMilisDurationSum,
			Help: "Sum of failed request durations in milliseconds",
		}, failedLabels),
		failedRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    FailedRequestDurationSec,
			Help:    "Duration of failed requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, failedLabels),
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IsFailedStatus reports whether an HTTP status is recorded under the
// failed series. 404 is deliberately counted as a regular request.
func IsFailedStatus(status int) bool {
	return status >= http.StatusBadRequest && status != http.StatusNotFound
}

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	if IsFailedStatus(status) {
		m.observeFailed(method, path, strconv.Itoa(status), duration)
		return
	}
	m.observeSucceeded(method, path, duration)
}

// ObserveGRPC records one finished gRPC call. fullMethod is the gRPC form
// "/package.Service/Method"; the path label drops the leading slash. OK and
// NotFound are recorded as regular requests, mirroring the HTTP 404 policy.
func (m *Metrics) ObserveGRPC(fullMethod string, code codes.Code, duration time.Duration) {
	path := fullMethod
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}

	if code == codes.OK || code == codes.NotFound {
		m.observeSucceeded(GRPCMethodLabel, path, duration)
		return
	}
	m.observeFailed(GRPCMethodLabel, path, strconv.Itoa(int(code)), duration)
}

func (m *Metrics) observeSucceeded(method, path string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.requestMilisSum.WithLabelValues(method, path).Add(float64(duration.Milliseconds()))
	m.requestCount.WithLabelValues(method, path).Inc()
}

func (m *Metrics) observeFailed(method, path, statusCode string, duration time.Duration) {
	m.failedRequestCount.WithLabelValues(method, path, statusCode).Inc()
	m.failedRequestMilisSum.WithLabelValues(method, path, statusCode).Add(float64(duration.Milliseconds()))
	m.failedRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

// RequestCounter returns the request counter for the given labels. It is
// exported for assertions in tests of dependent packages.
func (m *Metrics) RequestCounter(method, path string) prometheus.Counter {
	return m.requestCount.WithLabelValues(method, path)
}

// FailedRequestCounter returns the failed request counter for the given
// labels.
func (m *Metrics) FailedRequestCounter(method, path, statusCode string) prometheus.Counter {
	return m.failedRequestCount.WithLabelValues(method, path, statusCode)
}
