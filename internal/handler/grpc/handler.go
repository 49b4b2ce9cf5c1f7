// Package grpc provides the interceptors installed on every gRPC server of a
// service: request metrics, a request-scoped logger carrying a trace id,
// and panic recovery.
package grpc

import (
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/metrics"
)

// Handler holds the dependencies of the interceptors.
//
// A handler instance is created once per gRPC server and shared by both of
// its transport bindings.
type Handler struct {
	metrics *metrics.Metrics

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. A nil metrics sink disables the
// metrics interceptors.
func NewHandler(m *metrics.Metrics, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		metrics: m,
		logger:  logger,
	}
}
