// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sdk

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/MKhiriev/go-service-sdk/internal/adapter"
	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/capability"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/metrics"
	"github.com/MKhiriev/go-service-sdk/internal/server"
	"github.com/MKhiriev/go-service-sdk/internal/store"
	"github.com/MKhiriev/go-service-sdk/internal/telemetry"
	"github.com/MKhiriev/go-service-sdk/internal/workers"
)

var defaultSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT}

// ServiceContext is the lifecycle coordinator of one service process.
type ServiceContext struct {
	name    string
	version string

	settings     *config.SettingsReader
	state        *appstate.AppStates
	metrics      *metrics.Metrics
	capabilities *capability.Registry
	logger       *logger.Logger
	signals      []os.Signal

	tlsConfig *tls.Config
	storage   *store.Client
	pubsub    *adapter.PubSubClient
	telemetry *telemetry.Provider
	seq       *adapter.SeqWriter

	mu          sync.Mutex
	started     bool
	timers      []*workers.Timer
	schedule    *workers.Schedule
	httpBuilder *server.HTTPServerBuilder
	grpcBuilder *server.GRPCServerBuilder

	background  workers.Workers
	httpServers []*server.HTTPServer
	grpcServer  *server.GRPCServer
}

// New builds the context of a service from settings. Optional capabilities
// are resolved here, once: a capability is present when its settings are
// configured. Subsystems are created but nothing connects or listens until
// StartApplication.
func New(ctx context.Context, settings *Settings, opts ...Option) (*ServiceContext, error) {
	o := options{signals: defaultSignals}
	for _, opt := range opts {
		opt(&o)
	}

	reader := config.NewSettingsReader(settings)

	s := &ServiceContext{
		name:         reader.ServiceName(),
		version:      reader.ServiceVersion(),
		settings:     reader,
		state:        appstate.New(),
		metrics:      metrics.New(),
		capabilities: capability.NewRegistry(),
		signals:      o.signals,
	}
	if s.name == "" {
		s.name = serviceNameFallback(o.name)
	}
	if s.version == "" {
		s.version = o.version
	}

	root := o.logger
	if root == nil {
		root = logger.NewLogger("service")
	}

	if reader.Enabled(capability.LogShipping) {
		s.seq = adapter.NewSeqWriter(reader)
		s.capabilities.Register(capability.LogShipping, s.seq)
		root = root.WithSinks(s.seq)
	}
	s.logger = root.WithApp(s.name, s.version)

	if reader.Enabled(capability.TLS) {
		cfg, err := loadTLSConfig(reader.TLSFiles())
		if err != nil {
			return nil, err
		}
		s.tlsConfig = cfg
		s.capabilities.Register(capability.TLS, cfg)
	}

	s.resolveTelemetry(ctx, o)

	if reader.Enabled(capability.Storage) {
		s.storage = store.NewClient(reader, o.migrations, s.logger)
		s.capabilities.Register(capability.Storage, s.storage)
	}

	if reader.Enabled(capability.PubSub) {
		s.pubsub = adapter.NewPubSubClient(reader, s.name, s.logger)
		s.capabilities.Register(capability.PubSub, s.pubsub)
	}

	s.httpBuilder = server.NewHTTPServerBuilder(s.name, s.version, s.state, s.metrics, s.logger).
		SetAuthSettings(reader).
		SetTLSConfig(s.tlsConfig)
	if addr := reader.HTTPAddress(); addr != "" {
		s.httpBuilder.SetListenAddress(addr)
	}
	if s.telemetry != nil {
		s.httpBuilder.SetTracer(s.telemetry.Tracer(s.name))
	}

	s.logger.Info().
		Str("commit", o.commit).
		Any("capabilities", s.capabilities.Names()).
		Msg("service context created")

	return s, nil
}

// resolveTelemetry installs the trace provider. An exporter that cannot be
// created leaves telemetry absent.
func (s *ServiceContext) resolveTelemetry(ctx context.Context, o options) {
	var (
		p   *telemetry.Provider
		err error
	)

	switch {
	case o.exporter != nil:
		p = telemetry.NewWithExporter(o.exporter, s.settings, s)
	case s.settings.Enabled(capability.Telemetry):
		p, err = telemetry.New(ctx, s.settings, s)
	default:
		return
	}
	if err != nil {
		s.logger.Err(err).Msg("telemetry is disabled")
		return
	}

	p.Install()
	s.telemetry = p
	s.capabilities.Register(capability.Telemetry, p)
}

func serviceNameFallback(name string) string {
	if name == "" {
		name = filepath.Base(os.Args[0])
	}
	return config.WithNameSuffix(name)
}

func loadTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTLS, err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// ServiceName returns the resolved service name, suffix included.
func (s *ServiceContext) ServiceName() string {
	return s.name
}

// ServiceVersion returns the service version.
func (s *ServiceContext) ServiceVersion() string {
	return s.version
}

// Logger returns the root logger carrying the service name and version.
func (s *ServiceContext) Logger() *Logger {
	return s.logger
}

// State returns the shared application state.
func (s *ServiceContext) State() *appstate.AppStates {
	return s.state
}

// Metrics returns the process metrics registry.
func (s *ServiceContext) Metrics() *metrics.Metrics {
	return s.metrics
}

// Has reports whether a capability is present.
func (s *ServiceContext) Has(name Capability) bool {
	return s.capabilities.Has(name)
}

// Capabilities returns the present capabilities in sorted order.
func (s *ServiceContext) Capabilities() []Capability {
	return s.capabilities.Names()
}

// Storage returns the structured storage client when storage is configured.
func (s *ServiceContext) Storage() (*Storage, bool) {
	return capability.Get[*store.Client](s.capabilities, capability.Storage)
}

// PubSub returns the pub/sub client when a broker is configured.
func (s *ServiceContext) PubSub() (*PubSub, bool) {
	return capability.Get[*adapter.PubSubClient](s.capabilities, capability.PubSub)
}

func (s *ServiceContext) configure(f func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	return f()
}

// RegisterTimer adds a timer running tick once per period. More named
// ticks can be added to the returned timer.
func (s *ServiceContext) RegisterTimer(period time.Duration, tick Tick) (*Timer, error) {
	var t *workers.Timer
	err := s.configure(func() error {
		var err error
		if t, err = workers.NewTimer(period); err != nil {
			return err
		}
		t.Register(fmt.Sprintf("timer-%d", len(s.timers)+1), tick)
		s.timers = append(s.timers, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// RegisterSchedule adds a named tick run on a cron spec such as
// "*/5 * * * *" or "@every 1m".
func (s *ServiceContext) RegisterSchedule(spec, name string, tick Tick) error {
	return s.configure(func() error {
		if s.schedule == nil {
			s.schedule = workers.NewSchedule(s.logger)
		}
		return s.schedule.Register(spec, name, tick)
	})
}

// ConfigureHTTPServer hands the HTTP builder to fn.
func (s *ServiceContext) ConfigureHTTPServer(fn func(*HTTPServerBuilder)) error {
	return s.configure(func() error {
		fn(s.httpBuilder)
		return nil
	})
}

// ConfigureGRPCServer hands the gRPC builder to fn. The first call creates
// the builder, which makes the gRPC capability present.
func (s *ServiceContext) ConfigureGRPCServer(fn func(*GRPCServerBuilder)) error {
	return s.configure(func() error {
		if s.grpcBuilder == nil {
			s.grpcBuilder = server.NewGRPCServerBuilder(s.state, s.metrics, s.logger).
				SetTLSConfig(s.tlsConfig)
			s.capabilities.Register(capability.GRPC, s.grpcBuilder)
		}
		fn(s.grpcBuilder)
		return nil
	})
}

// Publish sends payload to subject through the pub/sub client.
func (s *ServiceContext) Publish(ctx context.Context, subject string, payload []byte) error {
	ps, ok := s.PubSub()
	if !ok {
		return fmt.Errorf("%w: %s", ErrCapabilityAbsent, capability.PubSub)
	}
	return ps.Publish(ctx, subject, payload)
}

// Subscribe registers handler on subject. Subscriptions made before the
// broker connection exists are applied once it does.
func (s *ServiceContext) Subscribe(subject string, queue QueueType, handler MessageHandler) error {
	ps, ok := s.PubSub()
	if !ok {
		return fmt.Errorf("%w: %s", ErrCapabilityAbsent, capability.PubSub)
	}
	return ps.Subscribe(subject, queue, handler)
}

// SubscribeWithSuffix is Subscribe with suffix appended to the shared queue
// group name.
func (s *ServiceContext) SubscribeWithSuffix(subject string, queue QueueType, suffix string, handler MessageHandler) error {
	ps, ok := s.PubSub()
	if !ok {
		return fmt.Errorf("%w: %s", ErrCapabilityAbsent, capability.PubSub)
	}
	return ps.SubscribeWithSuffix(subject, queue, suffix, handler)
}

// Shutdown requests a graceful shutdown of a running application.
func (s *ServiceContext) Shutdown() {
	s.state.Shutdown()
}
