// Package capability tracks which optional subsystems are present in a
// running service.
//
// Optional subsystems (structured storage, pub/sub, gRPC, telemetry export,
// log shipping) are resolved once when the service context is constructed.
// Consumers ask the registry whether a capability is present instead of
// relying on a field being nil.
package capability

import (
	"slices"
	"sync"
)

// Name identifies an optional capability.
type Name string

// Well-known capabilities of the SDK.
const (
	Storage     Name = "storage"
	PubSub      Name = "pubsub"
	GRPC        Name = "grpc"
	Telemetry   Name = "telemetry"
	LogShipping Name = "log_shipping"
	TLS         Name = "tls"
)

// Registry maps capability names to type-erased handles.
type Registry struct {
	mu      sync.RWMutex
	handles map[Name]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[Name]any)}
}

// Register stores handle under name. A nil handle unregisters the name.
func (r *Registry) Register(name Name, handle any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handle == nil {
		delete(r.handles, name)
		return
	}
	r.handles[name] = handle
}

// Lookup returns the handle registered under name.
func (r *Registry) Lookup(name Name) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[name]
	return h, ok
}

// Has reports whether name is present.
func (r *Registry) Has(name Name) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the present capabilities in sorted order.
func (r *Registry) Names() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Name, 0, len(r.handles))
	for n := range r.handles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Get returns the handle registered under name as T. The second result is
// false when the capability is absent or holds a different type.
func Get[T any](r *Registry, name Name) (T, bool) {
	var zero T
	h, ok := r.Lookup(name)
	if !ok {
		return zero, false
	}
	typed, ok := h.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
