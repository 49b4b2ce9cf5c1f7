package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

// Schedule runs named ticks on cron expressions in the standard five-field
// form (or descriptors such as "@every 1m"). A run that is still going when
// its next activation comes is skipped.
type Schedule struct {
	cron *cron.Cron
	log  *logger.Logger

	mu      sync.Mutex
	ctx     context.Context
	started bool

	done chan struct{}
}

// NewSchedule returns an idle schedule.
func NewSchedule(logger *logger.Logger) *Schedule {
	cl := cronLogger{log: logger}
	return &Schedule{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.SkipIfStillRunning(cl)),
		),
		log:  logger,
		ctx:  context.Background(),
		done: make(chan struct{}),
	}
}

// Register adds tick under name on spec.
func (s *Schedule) Register(spec, name string, tick Tick) error {
	_, err := s.cron.AddFunc(spec, func() {
		runTick(s.context(), s.log, name, tick)
	})
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}
	return nil
}

// Len returns the number of registered entries.
func (s *Schedule) Len() int {
	return len(s.cron.Entries())
}

func (s *Schedule) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Start launches the scheduler. It is stopped when the state reaches
// ShuttingDown; running ticks are awaited.
func (s *Schedule) Start(state *appstate.AppStates, logger *logger.Logger) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ctx = state.Context()
	s.log = logger
	s.mu.Unlock()

	s.cron.Start()

	go func() {
		defer close(s.done)
		<-state.Done()
		<-s.cron.Stop().Done()
		logger.Debug().Msg("schedule stopped")
	}()
}

// Wait blocks until the scheduler and its running ticks have stopped.
// It returns at once when the schedule was never started.
func (s *Schedule) Wait() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	if started {
		<-s.done
	}
}

type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Err(err).Fields(keysAndValues).Msg(msg)
}
