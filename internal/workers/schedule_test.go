package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

func TestSchedule_Register(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "five fields", spec: "*/5 * * * *"},
		{name: "descriptor", spec: "@hourly"},
		{name: "every", spec: "@every 1m"},
		{name: "seconds field is not accepted", spec: "*/5 * * * * *", wantErr: true},
		{name: "garbage", spec: "whenever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSchedule(logger.Nop())
			err := s.Register(tt.spec, "job", TickFunc(func(context.Context) error { return nil }))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)
				assert.Equal(t, 0, s.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestSchedule_RunsAndStopsAtShutdown(t *testing.T) {
	s := NewSchedule(logger.Nop())

	var runs atomic.Int32
	require.NoError(t, s.Register("@every 1s", "count", TickFunc(func(context.Context) error {
		runs.Add(1)
		return nil
	})))

	state := appstate.New()
	s.Start(state, logger.Nop())

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	state.Shutdown()
	s.Wait()
}

func TestSchedule_SkipsOverlappingRuns(t *testing.T) {
	s := NewSchedule(logger.Nop())

	var running, overlaps, runs atomic.Int32
	require.NoError(t, s.Register("@every 1s", "slow", TickFunc(func(ctx context.Context) error {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		defer running.Add(-1)
		runs.Add(1)
		select {
		case <-time.After(2500 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	})))

	state := appstate.New()
	s.Start(state, logger.Nop())

	time.Sleep(3500 * time.Millisecond)
	state.Shutdown()
	s.Wait()

	assert.Zero(t, overlaps.Load())
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestSchedule_WaitWithoutStart(t *testing.T) {
	s := NewSchedule(logger.Nop())
	s.Wait()
}
