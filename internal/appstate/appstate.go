// Package appstate holds the process-wide application state shared by every
// subsystem of a service: listeners, timers, client connection loops and the
// lifecycle coordinator itself.
//
// The state moves strictly forward:
//
//	Uninitialized -> Initialized -> ShuttingDown
//
// ShuttingDown is terminal. Readers never lock; the phase is an atomic value
// and shutdown is broadcast by closing a channel.
package appstate

import (
	"context"
	"sync"
	"sync/atomic"
)

// Phase is one of the three lifecycle phases of a process.
type Phase int32

const (
	Uninitialized Phase = iota
	Initialized
	ShuttingDown
)

// String returns the lower-case name of the phase.
func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case ShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// AppStates is the shared application state. The zero value is not usable;
// construct it with New.
type AppStates struct {
	phase atomic.Int32

	done     chan struct{}
	doneOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	cause error
}

// New returns an AppStates in the Uninitialized phase.
func New() *AppStates {
	ctx, cancel := context.WithCancel(context.Background())
	return &AppStates{
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Phase returns the current phase.
func (s *AppStates) Phase() Phase {
	return Phase(s.phase.Load())
}

// IsInitialized reports whether the process is initialized and not yet
// shutting down.
func (s *AppStates) IsInitialized() bool {
	return s.Phase() == Initialized
}

// IsShuttingDown reports whether shutdown has been requested.
func (s *AppStates) IsShuttingDown() bool {
	return s.Phase() == ShuttingDown
}

// SetInitialized moves the state from Uninitialized to Initialized. It
// returns false when the state is already past Uninitialized.
func (s *AppStates) SetInitialized() bool {
	return s.phase.CompareAndSwap(int32(Uninitialized), int32(Initialized))
}

// Shutdown moves the state to ShuttingDown from any phase. Repeated calls are
// no-ops.
func (s *AppStates) Shutdown() {
	s.phase.Store(int32(ShuttingDown))
	s.doneOnce.Do(func() {
		close(s.done)
		s.cancel()
	})
}

// Fail records err as the process-fatal cause and shuts the process down.
// Only the first cause is kept.
func (s *AppStates) Fail(err error) {
	if err != nil {
		s.mu.Lock()
		if s.cause == nil && !s.IsShuttingDown() {
			s.cause = err
		}
		s.mu.Unlock()
	}
	s.Shutdown()
}

// Err returns the fatal cause recorded by Fail, or nil for a clean shutdown.
func (s *AppStates) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// Done returns a channel closed when the state reaches ShuttingDown.
func (s *AppStates) Done() <-chan struct{} {
	return s.done
}

// Context returns a context cancelled when the state reaches ShuttingDown.
// Long-running loops derive their contexts from it.
func (s *AppStates) Context() context.Context {
	return s.ctx
}

// WaitUntilShutdown blocks until the state reaches ShuttingDown or ctx is
// done, whichever comes first.
func (s *AppStates) WaitUntilShutdown(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
