// Package telemetry exports traces of a service to an OTLP collector.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

var ErrNoEndpoint = errors.New("telemetry endpoint is empty")

// Provider owns the tracer provider and its background flush loop.
type Provider struct {
	tp       *sdktrace.TracerProvider
	interval time.Duration

	start sync.Once
	wg    sync.WaitGroup
}

// New creates a provider exporting over OTLP/gRPC to settings'
// endpoint. The exporter connects lazily; an unreachable collector does not
// fail New.
func New(ctx context.Context, settings config.TelemetrySettings, info config.ServiceInfo) (*Provider, error) {
	endpoint := settings.TelemetryEndpoint()
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if settings.TelemetryInsecure() {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating trace exporter: %w", err)
	}

	return NewWithExporter(exporter, settings, info), nil
}

// NewWithExporter creates a provider batching spans into exporter.
func NewWithExporter(exporter sdktrace.SpanExporter, settings config.TelemetrySettings, info config.ServiceInfo) *Provider {
	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(info.ServiceName()),
		semconv.ServiceVersion(info.ServiceVersion()),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.TelemetrySampleRate()))),
	)

	interval := settings.TelemetryFlushInterval()
	if interval <= 0 {
		interval = config.DefaultFlushInterval
	}

	return &Provider{tp: tp, interval: interval}
}

// Install makes the provider the process-global one and enables W3C trace
// context propagation.
func (p *Provider) Install() {
	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// Tracer returns a named tracer.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// Start launches the flush loop.
func (p *Provider) Start(state *appstate.AppStates, logger *logger.Logger) {
	p.start.Do(func() {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			ticker := time.NewTicker(p.interval)
			defer ticker.Stop()

			for {
				select {
				case <-state.Done():
					return
				case <-ticker.C:
					if err := p.Flush(state.Context()); err != nil && !errors.Is(err, context.Canceled) {
						logger.Warn().Err(err).Msg("trace flush failed")
					}
				}
			}
		}()
	})
}

// Wait blocks until the flush loop has exited.
func (p *Provider) Wait() {
	p.wg.Wait()
}

// Flush exports every finished span.
func (p *Provider) Flush(ctx context.Context) error {
	return p.tp.ForceFlush(ctx)
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down tracer provider: %w", err)
	}
	return nil
}
