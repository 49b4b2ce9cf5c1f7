package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-service-sdk/internal/config"
)

// TransportKind is the network of a binding.
type TransportKind int

const (
	TCP TransportKind = iota
	UnixSocket
)

func (k TransportKind) network() string {
	if k == UnixSocket {
		return "unix"
	}
	return "tcp"
}

// Protocol names the socket directory of a server kind.
type Protocol string

const (
	ProtocolHTTP Protocol = "http"
	ProtocolGRPC Protocol = "grpc"
)

// TransportBinding is one address a logical server listens on.
type TransportBinding struct {
	Kind    TransportKind
	Address string
}

func (b TransportBinding) String() string {
	return b.Kind.network() + "://" + b.Address
}

// Listen binds the address. A stale unix socket file is removed first.
func (b TransportBinding) Listen() (net.Listener, error) {
	if b.Kind == UnixSocket {
		if err := os.Remove(b.Address); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error removing stale socket %s: %w", b.Address, err)
		}
	}

	ln, err := net.Listen(b.Kind.network(), b.Address)
	if err != nil {
		return nil, fmt.Errorf("error binding %s: %w", b, err)
	}
	return ln, nil
}

// UnixSocketEnabled reports whether servers are replicated onto a unix
// socket: the platform must support them and UNIX_SOCKET must be "1".
func UnixSocketEnabled() bool {
	return unixSocketsSupported && config.UnixSocketRequested()
}

// SocketPath returns ~/<protocol>/<app>, creating the parent directory.
func SocketPath(proto Protocol, app string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error resolving home directory: %w", err)
	}

	dir := filepath.Join(home, string(proto))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating socket directory %s: %w", dir, err)
	}

	return filepath.Join(dir, app), nil
}

// Bindings returns the TCP binding of tcpAddress, followed by the unix
// socket binding of app when [UnixSocketEnabled].
func Bindings(proto Protocol, tcpAddress, app string) ([]TransportBinding, error) {
	bindings := []TransportBinding{{Kind: TCP, Address: tcpAddress}}

	if !UnixSocketEnabled() {
		return bindings, nil
	}

	path, err := SocketPath(proto, app)
	if err != nil {
		return nil, err
	}
	return append(bindings, TransportBinding{Kind: UnixSocket, Address: path}), nil
}
