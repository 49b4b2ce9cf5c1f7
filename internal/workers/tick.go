package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

// TickFunc adapts a function to [Tick].
type TickFunc func(ctx context.Context) error

func (f TickFunc) Tick(ctx context.Context) error {
	return f(ctx)
}

// runTick executes one tick. Errors and panics are logged and never leave
// the loop.
func runTick(ctx context.Context, log *logger.Logger, name string, tick Tick) {
	started := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrTickPanicked, r)
			}
		}()
		return tick.Tick(ctx)
	}()

	if err != nil {
		log.Err(err).Str("tick", name).Dur("elapsed", time.Since(started)).Msg("tick failed")
		return
	}
	log.Debug().Str("tick", name).Dur("elapsed", time.Since(started)).Msg("tick finished")
}
