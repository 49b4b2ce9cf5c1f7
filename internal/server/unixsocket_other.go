//go:build !unix

package server

const unixSocketsSupported = false
