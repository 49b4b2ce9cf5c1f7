// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-service-sdk/internal/capability"
)

// ServiceInfo identifies the running service.
type ServiceInfo interface {
	ServiceName() string
	ServiceVersion() string
}

// TelemetrySettings configures trace export.
type TelemetrySettings interface {
	TelemetryEndpoint() string
	TelemetryInsecure() bool
	TelemetrySampleRate() float64
	TelemetryFlushInterval() time.Duration
}

// SeqSettings configures log shipping.
type SeqSettings interface {
	SeqURL() string
	SeqFlushInterval() time.Duration
}

// StorageSettings configures structured storage.
type StorageSettings interface {
	StorageDSN() string
	StorageRetryInterval() time.Duration
}

// PubSubSettings configures the pub/sub client.
type PubSubSettings interface {
	PubSubHostPort() string
	PubSubRetryInterval() time.Duration
}

// AuthSettings configures bearer token verification.
type AuthSettings interface {
	TokenSignKey() string
	TokenIssuer() string
}

var (
	_ ServiceInfo       = (*SettingsReader)(nil)
	_ TelemetrySettings = (*SettingsReader)(nil)
	_ SeqSettings       = (*SettingsReader)(nil)
	_ StorageSettings   = (*SettingsReader)(nil)
	_ PubSubSettings    = (*SettingsReader)(nil)
	_ AuthSettings      = (*SettingsReader)(nil)
)

// bindings maps an optional capability to the settings value that enables
// it. A capability is configured when its value is non-empty.
var bindings = map[capability.Name]func(*Settings) string{
	capability.Storage:     func(s *Settings) string { return s.Storage.DSN },
	capability.PubSub:      func(s *Settings) string { return s.PubSub.HostPort },
	capability.Telemetry:   func(s *Settings) string { return s.Telemetry.Endpoint },
	capability.LogShipping: func(s *Settings) string { return s.Logging.SeqURL },
	capability.TLS:         func(s *Settings) string { return s.TLS.CertFile },
}

// SettingsReader guards [Settings] for concurrent reads by every subsystem.
type SettingsReader struct {
	mu       sync.RWMutex
	settings Settings
}

// NewSettingsReader wraps a copy of s.
func NewSettingsReader(s *Settings) *SettingsReader {
	r := &SettingsReader{}
	if s != nil {
		r.settings = *s
	}
	return r
}

// Update replaces the held settings.
func (r *SettingsReader) Update(s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = s
}

// Snapshot returns a copy of the held settings.
func (r *SettingsReader) Snapshot() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

func (r *SettingsReader) read(f func(*Settings) string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return f(&r.settings)
}

// Enabled reports whether the settings bound to name are present.
// Capabilities without a binding are never enabled by settings.
func (r *SettingsReader) Enabled(name capability.Name) bool {
	f, ok := bindings[name]
	if !ok {
		return false
	}
	return r.read(f) != ""
}

// ServiceName returns the configured name, suffixed with
// SERVICE_NAME_SUFFIX when it is set.
func (r *SettingsReader) ServiceName() string {
	return WithNameSuffix(r.read(func(s *Settings) string { return s.Service.Name }))
}

func (r *SettingsReader) ServiceVersion() string {
	return r.read(func(s *Settings) string { return s.Service.Version })
}

// HTTPAddress returns the HTTP listen address.
func (r *SettingsReader) HTTPAddress() string {
	return r.read(func(s *Settings) string { return s.Server.HTTPAddress })
}

// ShutdownTimeout returns the teardown bound.
func (r *SettingsReader) ShutdownTimeout() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Server.ShutdownTimeout
}

func (r *SettingsReader) TelemetryEndpoint() string {
	return r.read(func(s *Settings) string { return s.Telemetry.Endpoint })
}

func (r *SettingsReader) TelemetryInsecure() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Telemetry.Insecure
}

func (r *SettingsReader) TelemetrySampleRate() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Telemetry.SampleRate
}

func (r *SettingsReader) TelemetryFlushInterval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Telemetry.FlushInterval
}

func (r *SettingsReader) SeqURL() string {
	return r.read(func(s *Settings) string { return s.Logging.SeqURL })
}

func (r *SettingsReader) SeqFlushInterval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Logging.FlushInterval
}

func (r *SettingsReader) StorageDSN() string {
	return r.read(func(s *Settings) string { return s.Storage.DSN })
}

func (r *SettingsReader) StorageRetryInterval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Storage.RetryInterval
}

func (r *SettingsReader) PubSubHostPort() string {
	return r.read(func(s *Settings) string { return s.PubSub.HostPort })
}

func (r *SettingsReader) PubSubRetryInterval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.PubSub.RetryInterval
}

func (r *SettingsReader) TokenSignKey() string {
	return r.read(func(s *Settings) string { return s.Auth.TokenSignKey })
}

func (r *SettingsReader) TokenIssuer() string {
	return r.read(func(s *Settings) string { return s.Auth.TokenIssuer })
}

// TLSFiles returns the certificate and key paths.
func (r *SettingsReader) TLSFiles() (certFile, keyFile string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.TLS.CertFile, r.settings.TLS.KeyFile
}
