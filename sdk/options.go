package sdk

import (
	"io/fs"
	"os"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

// Option customizes a [ServiceContext] at construction.
type Option func(*options)

type options struct {
	name       string
	version    string
	commit     string
	logger     *logger.Logger
	migrations fs.FS
	exporter   sdktrace.SpanExporter
	signals    []os.Signal
}

// WithName sets the service name used when settings carry none.
// SERVICE_NAME_SUFFIX still applies.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithVersion sets the service version used when settings carry none.
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithBuildInfo sets the name and version used when settings carry none
// and records the build commit.
func WithBuildInfo(info BuildInfo) Option {
	return func(o *options) {
		o.name = info.Name
		o.version = info.Version
		o.commit = info.Commit
	}
}

// WithLogger replaces the root logger.
func WithLogger(l *Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMigrations sets the goose migrations applied after every storage
// connection.
func WithMigrations(migrations fs.FS) Option {
	return func(o *options) { o.migrations = migrations }
}

// WithSpanExporter enables telemetry with exporter instead of the OTLP
// exporter built from settings.
func WithSpanExporter(exporter sdktrace.SpanExporter) Option {
	return func(o *options) { o.exporter = exporter }
}

// WithSignals replaces the OS signals that request shutdown.
func WithSignals(signals ...os.Signal) Option {
	return func(o *options) { o.signals = signals }
}
