package sdk

import (
	"github.com/MKhiriev/go-service-sdk/internal/adapter"
	"github.com/MKhiriev/go-service-sdk/internal/capability"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/server"
	"github.com/MKhiriev/go-service-sdk/internal/store"
	"github.com/MKhiriev/go-service-sdk/internal/workers"
	"github.com/MKhiriev/go-service-sdk/models"
)

// Aliases of the types a service touches while configuring itself.
type (
	Settings          = config.Settings
	ServiceSettings   = config.Service
	ServerSettings    = config.Server
	TelemetrySettings = config.Telemetry
	LoggingSettings   = config.Logging
	StorageSettings   = config.Storage
	PubSubSettings    = config.PubSub
	AuthSettings      = config.Auth
	TLSSettings       = config.TLS
	Logger            = logger.Logger
	HTTPServerBuilder = server.HTTPServerBuilder
	GRPCServerBuilder = server.GRPCServerBuilder
	Timer             = workers.Timer
	Tick              = workers.Tick
	TickFunc          = workers.TickFunc
	Storage           = store.Client
	PubSub            = adapter.PubSubClient
	Message           = adapter.Message
	MessageHandler    = adapter.MessageHandler
	QueueType         = adapter.QueueType
	Capability        = capability.Name
	BuildInfo         = models.BuildInfo
)

// Queue kinds of a subscription.
const (
	SharedQueue = adapter.SharedQueue
	FanOutQueue = adapter.FanOutQueue
)

// Capabilities that may be present in a running service.
const (
	CapabilityStorage     = capability.Storage
	CapabilityPubSub      = capability.PubSub
	CapabilityGRPC        = capability.GRPC
	CapabilityTelemetry   = capability.Telemetry
	CapabilityLogShipping = capability.LogShipping
	CapabilityTLS         = capability.TLS
)

// LoadSettings merges environment variables, command-line flags from args
// and the optional YAML and JSON settings files.
func LoadSettings(args []string) (*Settings, error) {
	return config.GetSettings(args)
}
