package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("SERVICE_NAME", "orders")
	t.Setenv("SERVER_ADDRESS", "0.0.0.0:9000")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "7s")
	t.Setenv("TELEMETRY_ENDPOINT", "otel:4317")
	t.Setenv("TELEMETRY_SAMPLE_RATE", "0.5")
	t.Setenv("LOG_SEQ_URL", "http://seq:5341")
	t.Setenv("STORAGE_DATABASE_URI", "sqlite3://orders.db")
	t.Setenv("PUBSUB_HOST_PORT", "nats:4222")
	t.Setenv("AUTH_TOKEN_SIGN_KEY", "secret")
	t.Setenv("CONFIG", "/etc/orders.json")

	var cfg Settings
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "orders", cfg.Service.Name)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, 7*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "otel:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
	assert.Equal(t, "http://seq:5341", cfg.Logging.SeqURL)
	assert.Equal(t, "sqlite3://orders.db", cfg.Storage.DSN)
	assert.Equal(t, "nats:4222", cfg.PubSub.HostPort)
	assert.Equal(t, "secret", cfg.Auth.TokenSignKey)
	assert.Equal(t, "/etc/orders.json", cfg.JSONFilePath)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "soon")

	var cfg Settings
	assert.Error(t, parseEnv(&cfg))
}
