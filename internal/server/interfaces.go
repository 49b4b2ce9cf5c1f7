package server

import "context"

// Server is the lifecycle contract shared by started HTTP and gRPC
// servers.
type Server interface {
	// Shutdown stops accepting connections and waits for in-flight requests
	// until ctx is done.
	Shutdown(ctx context.Context) error

	// Addresses returns the bound addresses, one per transport binding.
	Addresses() []string
}

var (
	_ Server = (*HTTPServer)(nil)
	_ Server = (*GRPCServer)(nil)
)
