package workers

import (
	"sync"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

// Workers is the set of background workers of one service.
type Workers struct {
	mu      sync.Mutex
	workers []Worker
}

// Add appends w. Nil workers are ignored.
func (w *Workers) Add(worker Worker) {
	if worker == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workers = append(w.workers, worker)
}

// Len returns the number of workers.
func (w *Workers) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.workers)
}

// Start starts every worker in registration order.
func (w *Workers) Start(state *appstate.AppStates, logger *logger.Logger) {
	for _, worker := range w.snapshot() {
		worker.Start(state, logger)
	}
}

// Wait blocks until every worker has exited.
func (w *Workers) Wait() {
	for _, worker := range w.snapshot() {
		worker.Wait()
	}
}

func (w *Workers) snapshot() []Worker {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Worker, len(w.workers))
	copy(out, w.workers)
	return out
}
