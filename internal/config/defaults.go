package config

import "time"

// Defaults applied to fields left empty by every source.
const (
	DefaultHTTPAddress       = "0.0.0.0:8000"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultRetryInterval     = 5 * time.Second
	DefaultFlushInterval     = 2 * time.Second
	DefaultTelemetrySampling = 1.0
)

func (cfg *Settings) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Storage.RetryInterval == 0 {
		cfg.Storage.RetryInterval = DefaultRetryInterval
	}
	if cfg.PubSub.RetryInterval == 0 {
		cfg.PubSub.RetryInterval = DefaultRetryInterval
	}
	if cfg.Logging.FlushInterval == 0 {
		cfg.Logging.FlushInterval = DefaultFlushInterval
	}
	if cfg.Telemetry.FlushInterval == 0 {
		cfg.Telemetry.FlushInterval = DefaultFlushInterval
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = DefaultTelemetrySampling
	}
}
