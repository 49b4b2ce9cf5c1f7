//go:build unix

package server

const unixSocketsSupported = true
