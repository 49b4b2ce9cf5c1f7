package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/metrics"
)

const fullMethod = "/orders.v1.Orders/Get"

func chainUnary(h *Handler, handler grpc.UnaryHandler) grpc.UnaryHandler {
	interceptors := h.UnaryInterceptors()
	for i := len(interceptors) - 1; i >= 0; i-- {
		next, ic := handler, interceptors[i]
		handler = func(ctx context.Context, req any) (any, error) {
			return ic(ctx, req, &grpc.UnaryServerInfo{FullMethod: fullMethod}, next)
		}
	}
	return handler
}

func TestUnaryMetrics_DoesNotAlterResult(t *testing.T) {
	errBoom := status.Error(codes.Unavailable, "down")

	tests := []struct {
		name       string
		resp       any
		err        error
		wantOK     float64
		wantFailed float64
	}{
		{name: "ok", resp: "pong", wantOK: 1},
		{name: "not found counts as regular", err: status.Error(codes.NotFound, "x"), wantOK: 1},
		{name: "unavailable counts as failed", err: errBoom, wantFailed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			h := NewHandler(m, logger.Nop())

			resp, err := h.unaryMetrics(context.Background(), "ping", &grpc.UnaryServerInfo{FullMethod: fullMethod},
				func(ctx context.Context, req any) (any, error) { return tt.resp, tt.err })

			assert.Equal(t, tt.resp, resp)
			assert.Equal(t, tt.err, err)
			assert.Equal(t, tt.wantOK, testutil.ToFloat64(m.RequestCounter(metrics.GRPCMethodLabel, "orders.v1.Orders/Get")))
			assert.Equal(t, tt.wantFailed, testutil.ToFloat64(m.FailedRequestCounter(metrics.GRPCMethodLabel, "orders.v1.Orders/Get", "14")))
		})
	}
}

func TestUnaryChain_RecoversPanic(t *testing.T) {
	m := metrics.New()
	h := NewHandler(m, logger.Nop())

	_, err := chainUnary(h, func(ctx context.Context, req any) (any, error) {
		panic("boom")
	})(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailedRequestCounter(metrics.GRPCMethodLabel, "orders.v1.Orders/Get", "13")))
}

func TestUnaryTraceID_LoggerInContext(t *testing.T) {
	h := NewHandler(nil, logger.Nop())
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(traceIDKey, "trace-1"))

	var seen bool
	_, err := h.unaryTraceID(ctx, nil, &grpc.UnaryServerInfo{FullMethod: fullMethod},
		func(ctx context.Context, req any) (any, error) {
			seen = logger.FromContext(ctx) != nil
			return nil, nil
		})

	require.NoError(t, err)
	assert.True(t, seen)
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func TestStreamChain(t *testing.T) {
	m := metrics.New()
	h := NewHandler(m, logger.Nop())
	info := &grpc.StreamServerInfo{FullMethod: "/orders.v1.Orders/Watch"}

	handler := func(srv any, ss grpc.ServerStream) error {
		require.NotNil(t, ss.Context())
		return errors.New("plain error")
	}

	streams := h.StreamInterceptors()
	err := streams[0](nil, &fakeStream{ctx: context.Background()}, info, func(srv any, ss grpc.ServerStream) error {
		return streams[1](srv, ss, info, func(srv any, ss grpc.ServerStream) error {
			return streams[2](srv, ss, info, handler)
		})
	})

	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailedRequestCounter(metrics.GRPCMethodLabel, "orders.v1.Orders/Watch", "2")))
}
