package sdk

import (
	"context"
	"errors"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/server"
)

// StartApplication starts every subsystem, blocks until shutdown is
// requested and tears the subsystems down in reverse order.
//
// Start order: telemetry flush loop, log shipping, timers and schedules,
// storage connection loop, pub/sub connection loop, HTTP servers, gRPC
// server. Steps are independent; a failing step is logged and the rest
// still start. A listener that cannot bind, or fails while serving, is
// fatal and shuts the process down.
//
// Shutdown is requested by one of the configured OS signals, by cancelling
// ctx, by [ServiceContext.Shutdown] or by a fatal failure. Teardown is bounded
// by the configured shutdown timeout. The returned error is the fatal cause,
// nil for a clean shutdown.
func (s *ServiceContext) StartApplication(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	if !s.state.SetInitialized() {
		return ErrAlreadyStarted
	}

	s.logger.Info().
		Any("capabilities", s.capabilities.Names()).
		Msg("starting application")

	s.startBackground()
	s.startHTTP()
	s.startGRPC()

	// signal.NotifyContext with no signals relays all of them.
	waitCtx, stop := ctx, context.CancelFunc(func() {})
	if len(s.signals) > 0 {
		waitCtx, stop = signal.NotifyContext(ctx, s.signals...)
	}
	defer stop()

	select {
	case <-s.state.Done():
	case <-waitCtx.Done():
		s.logger.Info().Msg("shutdown requested")
		s.state.Shutdown()
	}

	s.teardown()

	if err := s.state.Err(); err != nil {
		s.logger.Err(err).Msg("application stopped with failure")
		return err
	}
	s.logger.Info().Msg("application stopped")
	return nil
}

func (s *ServiceContext) startBackground() {
	if s.telemetry != nil {
		s.background.Add(s.telemetry)
	}
	if s.seq != nil {
		s.background.Add(s.seq)
	}
	for _, t := range s.timers {
		s.background.Add(t)
	}
	if s.schedule != nil {
		s.background.Add(s.schedule)
	}
	if s.storage != nil {
		s.background.Add(s.storage)
	}
	if s.pubsub != nil {
		s.background.Add(s.pubsub)
	}

	s.background.Start(s.state, s.logger)
}

func (s *ServiceContext) startHTTP() {
	servers, err := s.httpBuilder.Build()
	if err != nil {
		s.logger.Err(err).Msg("error building http servers")
		s.state.Fail(err)
		return
	}

	h2 := config.HTTP2Requested()
	for _, srv := range servers {
		if err = srv.Start(h2); err != nil {
			s.logger.Err(err).Str("binding", srv.Binding().String()).Msg("error starting http server")
			s.state.Fail(err)
			continue
		}
		s.httpServers = append(s.httpServers, srv)
		s.logger.Info().Strs("addresses", srv.Addresses()).Bool("h2c", h2).Msg("http server started")
	}
}

func (s *ServiceContext) startGRPC() {
	if s.grpcBuilder == nil {
		return
	}

	srv, err := s.grpcBuilder.Start(s.name)
	switch {
	case errors.Is(err, server.ErrNoServices):
		s.logger.Warn().Msg("grpc server configured without services, not started")
	case err != nil:
		s.logger.Err(err).Msg("error starting grpc server")
		s.state.Fail(err)
	default:
		s.grpcServer = srv
		s.logger.Info().Strs("addresses", srv.Addresses()).Msg("grpc server started")
	}
}

// teardown stops listeners first, then waits for the background loops that
// already observed ShuttingDown, then releases the clients.
func (s *ServiceContext) teardown() {
	timeout := s.settings.ShutdownTimeout()
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var listeners errgroup.Group
	for _, srv := range s.servers() {
		listeners.Go(func() error { return srv.Shutdown(ctx) })
	}
	if err := listeners.Wait(); err != nil {
		s.logger.Err(err).Msg("error stopping listeners")
	}

	waited := make(chan struct{})
	go func() {
		s.background.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		s.logger.Warn().Msg("background loops did not stop before the shutdown deadline")
	}

	var clients errgroup.Group
	if s.pubsub != nil {
		clients.Go(s.pubsub.Close)
	}
	if s.storage != nil {
		clients.Go(s.storage.Close)
	}
	if s.telemetry != nil {
		clients.Go(func() error { return s.telemetry.Shutdown(ctx) })
	}
	if err := clients.Wait(); err != nil {
		s.logger.Err(err).Msg("error releasing clients")
	}
}

func (s *ServiceContext) servers() []server.Server {
	servers := make([]server.Server, 0, len(s.httpServers)+1)
	if s.grpcServer != nil {
		servers = append(servers, s.grpcServer)
	}
	for _, srv := range s.httpServers {
		servers = append(servers, srv)
	}
	return servers
}
