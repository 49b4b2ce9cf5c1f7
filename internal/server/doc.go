// Package server builds and runs the transport servers of a service.
//
// [HTTPServerBuilder] collects routes, authorization and middlewares and
// builds one logical pipeline served on every enabled transport binding.
// [GRPCServerBuilder] collects service implementations and serves them on
// the same set of bindings. A binding is always TCP, plus a unix domain
// socket under the user's home directory when the platform supports it and
// UNIX_SOCKET=1.
package server
