// Package workers runs the background work of a service: fixed-period
// timers with named ticks and cron schedules. Every worker stops when the
// application state reaches ShuttingDown.
package workers

//go:generate mockgen -source=interfaces.go -destination=../mock/workers_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

// Tick is one unit of periodic work. ctx is cancelled at shutdown.
type Tick interface {
	Tick(ctx context.Context) error
}

// Worker is a background loop bound to the application state.
//
// Start must not block. Wait blocks until the loop has exited, which
// happens after the state reaches ShuttingDown.
type Worker interface {
	Start(state *appstate.AppStates, logger *logger.Logger)
	Wait()
}
