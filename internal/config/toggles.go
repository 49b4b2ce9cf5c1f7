package config

import (
	"os"
	"strconv"
)

// Raw environment toggles read outside of [Settings]. Malformed values fall
// back to defaults.
const (
	EnvGRPCPort          = "GRPC_PORT"
	EnvUnixSocket        = "UNIX_SOCKET"
	EnvHTTP2             = "HTTP2"
	EnvServiceNameSuffix = "SERVICE_NAME_SUFFIX"
	EnvGRPCReflection    = "GRPC_REFLECTION"

	DefaultGRPCPort = 8888
)

// GRPCPort returns GRPC_PORT, or [DefaultGRPCPort] when it is unset or not
// a valid port number.
func GRPCPort() int {
	port, err := strconv.Atoi(os.Getenv(EnvGRPCPort))
	if err != nil || port < 1 || port > 65535 {
		return DefaultGRPCPort
	}
	return port
}

// UnixSocketRequested reports whether UNIX_SOCKET is exactly "1".
func UnixSocketRequested() bool {
	return os.Getenv(EnvUnixSocket) == "1"
}

// HTTP2Requested reports whether HTTP2 is present in the environment.
func HTTP2Requested() bool {
	_, ok := os.LookupEnv(EnvHTTP2)
	return ok
}

// GRPCReflectionRequested reports whether GRPC_REFLECTION is exactly "1".
func GRPCReflectionRequested() bool {
	return os.Getenv(EnvGRPCReflection) == "1"
}

// WithNameSuffix appends SERVICE_NAME_SUFFIX to name as "<name>-<suffix>".
// An empty name stays empty.
func WithNameSuffix(name string) string {
	suffix := os.Getenv(EnvServiceNameSuffix)
	if suffix == "" || name == "" {
		return name
	}
	return name + "-" + suffix
}
