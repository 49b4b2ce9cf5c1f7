package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

type storageSettings struct {
	dsn      string
	interval time.Duration
}

func (s storageSettings) StorageDSN() string                  { return s.dsn }
func (s storageSettings) StorageRetryInterval() time.Duration { return s.interval }

func TestClient_RetriesUntilConnected(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	var attempts atomic.Int32
	c := NewClient(storageSettings{dsn: "postgres://db", interval: 5 * time.Millisecond}, nil, logger.Nop())
	c.open = func(context.Context, string, *logger.Logger) (*DB, error) {
		if attempts.Add(1) < 3 {
			return nil, errors.New("connection refused")
		}
		return NewDB(conn, DriverPostgres, logger.Nop()), nil
	}

	_, err = c.DB()
	assert.ErrorIs(t, err, ErrNotConnected)

	state := appstate.New()
	c.Start(state, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db, err := c.WaitConnected(ctx)
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, int32(3), attempts.Load())
	assert.True(t, c.Connected())

	c.Wait()
	assert.NoError(t, c.Close())
	assert.False(t, c.Connected())
}

func TestClient_StopsRetryingAtShutdown(t *testing.T) {
	c := NewClient(storageSettings{dsn: "postgres://db", interval: time.Hour}, nil, logger.Nop())

	var attempts atomic.Int32
	c.open = func(context.Context, string, *logger.Logger) (*DB, error) {
		attempts.Add(1)
		return nil, errors.New("connection refused")
	}

	state := appstate.New()
	c.Start(state, logger.Nop())
	require.Eventually(t, func() bool { return attempts.Load() == 1 }, time.Second, time.Millisecond)

	state.Shutdown()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("connection loop did not stop at shutdown")
	}
	assert.False(t, c.Connected())
}

func TestClient_GivesUpOnUnsupportedDSN(t *testing.T) {
	c := NewClient(storageSettings{dsn: "mysql://db", interval: time.Millisecond}, nil, logger.Nop())

	c.Start(appstate.New(), logger.Nop())
	c.Wait()

	_, err := c.DB()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_WaitConnectedHonorsContext(t *testing.T) {
	c := NewClient(storageSettings{dsn: "postgres://db"}, nil, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.WaitConnected(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_CloseWithoutConnection(t *testing.T) {
	c := NewClient(storageSettings{}, nil, logger.Nop())
	assert.NoError(t, c.Close())
}
