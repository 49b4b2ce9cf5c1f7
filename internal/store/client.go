package store

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

type openFunc func(ctx context.Context, dsn string, log *logger.Logger) (*DB, error)

// Client owns the structured storage connection of a service. Start runs
// a loop that keeps trying to connect until it succeeds or the service
// shuts down.
type Client struct {
	settings   config.StorageSettings
	migrations fs.FS
	open       openFunc

	mu     sync.RWMutex
	db     *DB
	ready  chan struct{}
	start  sync.Once
	wg     sync.WaitGroup
	logger *logger.Logger
}

// NewClient returns an idle client. migrations, when not nil, are applied
// once right after the first successful connection.
func NewClient(settings config.StorageSettings, migrations fs.FS, logger *logger.Logger) *Client {
	return &Client{
		settings:   settings,
		migrations: migrations,
		open:       Open,
		ready:      make(chan struct{}),
		logger:     logger,
	}
}

// Start launches the connection loop.
func (c *Client) Start(state *appstate.AppStates, logger *logger.Logger) {
	c.start.Do(func() {
		c.logger = logger
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.connectLoop(state)
		}()
	})
}

// Wait blocks until the connection loop has exited.
func (c *Client) Wait() {
	c.wg.Wait()
}

func (c *Client) connectLoop(state *appstate.AppStates) {
	ctx := state.Context()
	interval := c.settings.StorageRetryInterval()
	if interval <= 0 {
		interval = config.DefaultRetryInterval
	}

	for attempt := 1; ; attempt++ {
		err := c.connect(ctx)
		if err == nil {
			c.logger.Info().Int("attempt", attempt).Msg("storage connected")
			return
		}
		if errors.Is(err, ErrUnsupportedDSN) || errors.Is(err, ErrEmptyDSN) {
			c.logger.Err(err).Msg("storage connection abandoned")
			return
		}

		c.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", interval).Msg("storage connection failed")

		timer := time.NewTimer(interval)
		select {
		case <-state.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	db, err := c.open(ctx, c.settings.StorageDSN(), c.logger)
	if err != nil {
		return err
	}

	if c.migrations != nil {
		if err := db.Migrate(ctx, c.migrations); err != nil {
			_ = db.Close()
			return err
		}
	}

	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
	close(c.ready)

	return nil
}

// DB returns the connection, or [ErrNotConnected] while the loop is still
// trying.
func (c *Client) DB() (*DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db, nil
}

// Connected reports whether a connection is available.
func (c *Client) Connected() bool {
	_, err := c.DB()
	return err == nil
}

// WaitConnected blocks until the connection is available or ctx is done.
func (c *Client) WaitConnected(ctx context.Context) (*DB, error) {
	select {
	case <-c.ready:
		return c.DB()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the connection pool.
func (c *Client) Close() error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}
