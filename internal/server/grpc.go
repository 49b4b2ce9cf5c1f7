package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

// GRPCServer is one grpc.Server served on every transport binding.
type GRPCServer struct {
	server    *grpc.Server
	bindings  []TransportBinding
	listeners []net.Listener

	state  *appstate.AppStates
	logger *logger.Logger
}

func (g *GRPCServer) serve() {
	for i, ln := range g.listeners {
		binding := g.bindings[i]
		go func() {
			g.logger.Info().Str("binding", binding.String()).Msg("Launching gRPC server")
			if err := g.server.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				g.logger.Err(err).Str("binding", binding.String()).Msg("gRPC server Serve")
				g.state.Fail(fmt.Errorf("grpc server %s: %w", binding, err))
			}
		}()
	}
}

// Shutdown stops accepting calls and waits for in-flight ones. When ctx
// ends first the remaining calls are cancelled.
func (g *GRPCServer) Shutdown(ctx context.Context) error {
	g.logger.Info().Msg("gRPC server Shutdown")

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return fmt.Errorf("grpc server shutdown: %w", ctx.Err())
	}
}

// Addresses returns the bound address of every binding.
func (g *GRPCServer) Addresses() []string {
	addrs := make([]string, 0, len(g.listeners))
	for _, ln := range g.listeners {
		addrs = append(addrs, ln.Addr().String())
	}
	return addrs
}
