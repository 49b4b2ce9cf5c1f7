package workers

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

type namedTick struct {
	name string
	tick Tick
}

// Timer runs its registered ticks once per period. The first run happens
// one period after Start. Ticks run one after another on a single goroutine
// so runs never overlap, and the next period starts when the previous run
// returns.
type Timer struct {
	period time.Duration

	mu      sync.Mutex
	ticks   []namedTick
	started bool

	wg sync.WaitGroup
}

// NewTimer returns an idle timer.
func NewTimer(period time.Duration) (*Timer, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	return &Timer{period: period}, nil
}

// Period returns the period of the timer.
func (t *Timer) Period() time.Duration {
	return t.period
}

// Register adds a named tick. Ticks registered after Start are picked up on
// the next period.
func (t *Timer) Register(name string, tick Tick) *Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks = append(t.ticks, namedTick{name: name, tick: tick})
	return t
}

// Start launches the loop. Calls after the first are ignored.
func (t *Timer) Start(state *appstate.AppStates, logger *logger.Logger) {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.wg.Add(1)
	t.mu.Unlock()

	log := logger.GetChildLogger()
	log.Logger = log.With().Dur("period", t.period).Logger()

	go func() {
		defer t.wg.Done()
		wait := time.NewTimer(t.period)
		defer wait.Stop()

		for {
			select {
			case <-state.Done():
				log.Debug().Msg("timer stopped")
				return
			case <-wait.C:
				t.runAll(state, log)
				wait.Reset(t.period)
			}
		}
	}()
}

func (t *Timer) runAll(state *appstate.AppStates, log *logger.Logger) {
	t.mu.Lock()
	ticks := make([]namedTick, len(t.ticks))
	copy(ticks, t.ticks)
	t.mu.Unlock()

	for _, nt := range ticks {
		if state.IsShuttingDown() {
			return
		}
		runTick(state.Context(), log, nt.name, nt.tick)
	}
}

// Wait blocks until the loop has exited.
func (t *Timer) Wait() {
	t.wg.Wait()
}
