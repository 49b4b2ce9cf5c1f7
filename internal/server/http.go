package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

const readHeaderTimeout = 10 * time.Second

// HTTPServer serves one pipeline on one transport binding.
type HTTPServer struct {
	binding   TransportBinding
	handler   http.Handler
	tlsConfig *tls.Config

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener

	state  *appstate.AppStates
	logger *logger.Logger
}

func newHTTPServer(binding TransportBinding, handler http.Handler, tlsConfig *tls.Config, state *appstate.AppStates, logger *logger.Logger) *HTTPServer {
	return &HTTPServer{
		binding:   binding,
		handler:   handler,
		tlsConfig: tlsConfig,
		state:     state,
		logger:    logger,
	}
}

// Binding returns the transport binding of the server.
func (s *HTTPServer) Binding() TransportBinding {
	return s.binding
}

// Start binds the address and serves in a background goroutine. With h2
// cleartext HTTP/2 is accepted next to HTTP/1.1. A failure after a
// successful bind is process-fatal and reported to the application state.
func (s *HTTPServer) Start(h2 bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return ErrBuilderConsumed
	}

	ln, err := s.binding.Listen()
	if err != nil {
		return err
	}

	handler := s.handler
	if h2 {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	s.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		TLSConfig:         s.tlsConfig,
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}
	s.listener = ln

	server := s.server
	go func() {
		s.logger.Info().Str("binding", s.binding.String()).Bool("h2", h2).Msg("Launching HTTP server")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Err(err).Str("binding", s.binding.String()).Msg("HTTP server Serve")
			s.state.Fail(fmt.Errorf("http server %s: %w", s.binding, err))
		}
	}()

	return nil
}

// Shutdown stops the server gracefully. A server that was never started
// is a no-op.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}

	s.logger.Info().Str("binding", s.binding.String()).Msg("HTTP server Shutdown")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server %s shutdown: %w", s.binding, err)
	}
	return nil
}

// Addresses returns the bound address, or the configured one before
// Start.
func (s *HTTPServer) Addresses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return []string{s.listener.Addr().String()}
	}
	return []string{s.binding.Address}
}
