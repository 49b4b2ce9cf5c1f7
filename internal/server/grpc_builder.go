package server

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/reflection"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	handlergrpc "github.com/MKhiriev/go-service-sdk/internal/handler/grpc"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/metrics"
)

type serviceRegistration struct {
	desc *grpc.ServiceDesc
	impl any
}

// GRPCServerBuilder collects gRPC service implementations of one logical
// server.
type GRPCServerBuilder struct {
	mu sync.Mutex

	address   string
	services  []serviceRegistration
	tlsConfig *tls.Config
	options   []grpc.ServerOption

	consumed bool

	state   *appstate.AppStates
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewGRPCServerBuilder returns a builder listening on 0.0.0.0 and the port
// from GRPC_PORT.
func NewGRPCServerBuilder(state *appstate.AppStates, m *metrics.Metrics, logger *logger.Logger) *GRPCServerBuilder {
	return &GRPCServerBuilder{
		address: net.JoinHostPort("0.0.0.0", strconv.Itoa(config.GRPCPort())),
		state:   state,
		metrics: m,
		logger:  logger,
	}
}

// AddService registers impl as the implementation of desc.
func (b *GRPCServerBuilder) AddService(desc *grpc.ServiceDesc, impl any) *GRPCServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.services = append(b.services, serviceRegistration{desc: desc, impl: impl})
	return b
}

// UpdateListenEndpoint sets the TCP listen address.
func (b *GRPCServerBuilder) UpdateListenEndpoint(ip string, port int) *GRPCServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.address = net.JoinHostPort(ip, strconv.Itoa(port))
	return b
}

// ListenAddress returns the configured TCP listen address.
func (b *GRPCServerBuilder) ListenAddress() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.address
}

// SetTLSConfig serves every binding with TLS credentials.
func (b *GRPCServerBuilder) SetTLSConfig(cfg *tls.Config) *GRPCServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tlsConfig = cfg
	return b
}

// AddServerOption appends a raw grpc option applied after the SDK
// interceptors.
func (b *GRPCServerBuilder) AddServerOption(opt grpc.ServerOption) *GRPCServerBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.options = append(b.options, opt)
	return b
}

// Start consumes the builder, binds every transport and serves in the
// background. Either all bindings are served or none is.
func (b *GRPCServerBuilder) Start(appName string) (*GRPCServer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	if len(b.services) == 0 {
		return nil, ErrNoServices
	}

	bindings, err := Bindings(ProtocolGRPC, b.address, appName)
	if err != nil {
		return nil, fmt.Errorf("error resolving grpc bindings: %w", err)
	}

	listeners := make([]net.Listener, 0, len(bindings))
	for _, binding := range bindings {
		ln, err := binding.Listen()
		if err != nil {
			for _, opened := range listeners {
				_ = opened.Close()
			}
			return nil, err
		}
		listeners = append(listeners, ln)
	}

	handler := handlergrpc.NewHandler(b.metrics, b.logger)
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(handler.UnaryInterceptors()...),
		grpc.ChainStreamInterceptor(handler.StreamInterceptors()...),
	}
	if b.tlsConfig != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(b.tlsConfig)))
	}
	opts = append(opts, b.options...)

	server := grpc.NewServer(opts...)
	for _, svc := range b.services {
		server.RegisterService(svc.desc, svc.impl)
	}
	if config.GRPCReflectionRequested() {
		reflection.Register(server)
	}

	s := &GRPCServer{
		server:    server,
		bindings:  bindings,
		listeners: listeners,
		state:     b.state,
		logger:    b.logger,
	}
	s.serve()

	return s, nil
}
