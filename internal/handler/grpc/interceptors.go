package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

const traceIDKey = "x-trace-id"

// UnaryInterceptors returns the interceptor chain in installation order.
func (h *Handler) UnaryInterceptors() []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{h.unaryTraceID, h.unaryMetrics, h.unaryRecovery}
}

// StreamInterceptors returns the interceptor chain in installation order.
func (h *Handler) StreamInterceptors() []grpc.StreamServerInterceptor {
	return []grpc.StreamServerInterceptor{h.streamTraceID, h.streamMetrics, h.streamRecovery}
}

// unaryMetrics records the call under the GRPC method label. It never
// alters the response or the error.
func (h *Handler) unaryMetrics(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if h.metrics == nil {
		return handler(ctx, req)
	}

	start := time.Now()
	resp, err := handler(ctx, req)
	h.metrics.ObserveGRPC(info.FullMethod, status.Code(err), time.Since(start))

	return resp, err
}

func (h *Handler) streamMetrics(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	if h.metrics == nil {
		return handler(srv, ss)
	}

	start := time.Now()
	err := handler(srv, ss)
	h.metrics.ObserveGRPC(info.FullMethod, status.Code(err), time.Since(start))

	return err
}

func (h *Handler) unaryTraceID(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx = h.withTraceID(ctx, info.FullMethod)

	start := time.Now()
	resp, err := handler(ctx, req)

	logger.FromContext(ctx).Info().
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

func (h *Handler) streamTraceID(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx := h.withTraceID(ss.Context(), info.FullMethod)

	start := time.Now()
	err := handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})

	logger.FromContext(ctx).Info().
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return err
}

// withTraceID attaches a child logger carrying the trace id of the incoming
// metadata, or a fresh one, and echoes it back in the response header.
func (h *Handler) withTraceID(ctx context.Context, fullMethod string) context.Context {
	var traceID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(traceIDKey); len(values) > 0 && values[0] != "" {
			traceID = values[0]
		}
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}

	_ = grpc.SetHeader(ctx, metadata.Pairs(traceIDKey, traceID))

	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID).Str("grpc_method", fullMethod)
	})
	return l.WithContext(ctx)
}

func (h *Handler) unaryRecovery(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error().Interface("panic", r).Msg("gRPC handler panicked")
			err = status.Error(codes.Internal, "internal error")
		}
	}()

	return handler(ctx, req)
}

func (h *Handler) streamRecovery(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ss.Context()).Error().Interface("panic", r).Msg("gRPC stream panicked")
			err = status.Error(codes.Internal, "internal error")
		}
	}()

	return handler(srv, ss)
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
