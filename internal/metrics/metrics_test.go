package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestNew_RegistersSeries(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/ping", http.StatusOK, time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/ping", http.StatusInternalServerError, time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	for _, want := range []string{
		RequestCount, FailedRequestCount,
		RequestMilisDurationSum, FailedRequestMilisDurationSum,
		RequestDurationSec, FailedRequestDurationSec,
		"go_goroutines",
	} {
		assert.True(t, names[want], "metric %s must be registered", want)
	}
}

func TestObserveHTTP_Classification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantFailed bool
	}{
		{name: "200 ok", status: http.StatusOK},
		{name: "302 redirect", status: http.StatusFound},
		{name: "404 counted as regular request", status: http.StatusNotFound},
		{name: "400 bad request", status: http.StatusBadRequest, wantFailed: true},
		{name: "401 unauthorized", status: http.StatusUnauthorized, wantFailed: true},
		{name: "500 internal", status: http.StatusInternalServerError, wantFailed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.ObserveHTTP(http.MethodPost, "/orders", tt.status, 15*time.Millisecond)

			if tt.wantFailed {
				assert.Equal(t, 0, testutil.CollectAndCount(m.requestCount))
				assert.Equal(t, 1.0, testutil.ToFloat64(
					m.failedRequestCount.WithLabelValues(http.MethodPost, "/orders", strconv.Itoa(tt.status))))
				assert.Equal(t, 15.0, testutil.ToFloat64(
					m.failedRequestMilisSum.WithLabelValues(http.MethodPost, "/orders", strconv.Itoa(tt.status))))
				return
			}

			assert.Equal(t, 0, testutil.CollectAndCount(m.failedRequestCount))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter(http.MethodPost, "/orders")))
			assert.Equal(t, 15.0, testutil.ToFloat64(m.requestMilisSum.WithLabelValues(http.MethodPost, "/orders")))
		})
	}
}

func TestObserveGRPC(t *testing.T) {
	m := New()

	m.ObserveGRPC("/orders.v1.Orders/Get", codes.OK, time.Millisecond)
	m.ObserveGRPC("/orders.v1.Orders/Get", codes.NotFound, time.Millisecond)
	m.ObserveGRPC("/orders.v1.Orders/Get", codes.Unavailable, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter(GRPCMethodLabel, "orders.v1.Orders/Get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.FailedRequestCounter(GRPCMethodLabel, "orders.v1.Orders/Get", "14")))
}

func TestObserveHTTP_ConcurrentIncrementsAreNotLost(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				m.ObserveHTTP(http.MethodGet, "/ping", http.StatusOK, time.Microsecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000.0, testutil.ToFloat64(m.RequestCounter(http.MethodGet, "/ping")))
}

func TestHandler_ServesExposition(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/ping", http.StatusOK, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(body), `http_request_count{method="GET",path="/ping"} 1`)
}
