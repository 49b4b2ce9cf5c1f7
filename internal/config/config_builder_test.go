package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that a builder without sources fails
// validation because the service name is missing.
func TestBuild_EmptyBuilder(t *testing.T) {
	_, err := newConfigBuilder().build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidServiceSettings)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&Settings{Service: Service{Name: "orders", Version: "1.0.0"}},
		&Settings{Auth: Auth{TokenIssuer: "issuer"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "orders", cfg.Service.Name)
	assert.Equal(t, "1.0.0", cfg.Service.Version)
	assert.Equal(t, "issuer", cfg.Auth.TokenIssuer)
}

// TestBuild_LaterSourceWins verifies that a non-empty field of a later
// source overrides the same field of an earlier one.
func TestBuild_LaterSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&Settings{Service: Service{Name: "orders"}, Storage: Storage{DSN: "from-env"}},
		&Settings{Storage: Storage{DSN: "from-file"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Storage.DSN)
	assert.Equal(t, "orders", cfg.Service.Name)
}

func TestBuild_AppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &Settings{Service: Service{Name: "orders"}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DefaultRetryInterval, cfg.Storage.RetryInterval)
	assert.Equal(t, DefaultRetryInterval, cfg.PubSub.RetryInterval)
	assert.Equal(t, DefaultFlushInterval, cfg.Logging.FlushInterval)
	assert.Equal(t, DefaultTelemetrySampling, cfg.Telemetry.SampleRate)
}

func TestBuild_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{
			name: "bad http address",
			settings: Settings{
				Service: Service{Name: "orders"},
				Server:  Server{HTTPAddress: "no-port"},
			},
		},
		{
			name: "sample rate above one",
			settings: Settings{
				Service:   Service{Name: "orders"},
				Telemetry: Telemetry{SampleRate: 2},
			},
		},
		{
			name: "seq url is not a url",
			settings: Settings{
				Service: Service{Name: "orders"},
				Logging: Logging{SeqURL: "::not a url"},
			},
		},
		{
			name: "tls cert without key",
			settings: Settings{
				Service: Service{Name: "orders"},
				TLS:     TLS{CertFile: "cert.pem"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newConfigBuilder()
			s := tt.settings
			b.configs = append(b.configs, &s)

			_, err := b.build()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

// ── withJSON / withYAML ───────────────────────────────────────────────────────

func TestWithJSON_NoPathSkips(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &Settings{})

	b.withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_LoadsFile(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"service": map[string]any{"name": "orders"},
		"server":  map[string]any{"shutdown_timeout": "3s"},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &Settings{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "orders", b.configs[1].Service.Name)
	assert.Equal(t, 3*time.Second, b.configs[1].Server.ShutdownTimeout)
}

func TestWithJSON_MissingFileRecordsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &Settings{JSONFilePath: filepath.Join(t.TempDir(), "absent.json")})
	b.withJSON()

	assert.Error(t, b.err)
}

func TestWithYAML_LoadsFile(t *testing.T) {
	path := writeTempFile(t, "settings.yaml", `
service:
  name: orders
storage:
  dsn: postgres://localhost/orders
  retry_interval: 1s
`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &Settings{YAMLFilePath: path})
	b.withYAML()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "postgres://localhost/orders", b.configs[1].Storage.DSN)
	assert.Equal(t, time.Second, b.configs[1].Storage.RetryInterval)
}

// ── GetSettings ───────────────────────────────────────────────────────────────

// TestGetSettings_Priority verifies env < flags < yaml < json.
func TestGetSettings_Priority(t *testing.T) {
	yamlPath := writeTempFile(t, "settings.yaml", `
storage:
  dsn: from-yaml
pubsub:
  host_port: localhost:4222
`)
	jsonPath := writeTempJSONConfig(t, map[string]any{
		"storage": map[string]any{"dsn": "from-json"},
	})

	t.Setenv("SERVICE_NAME", "orders")
	t.Setenv("SERVICE_VERSION", "1.2.3")
	t.Setenv("STORAGE_DATABASE_URI", "from-env")
	t.Setenv("SETTINGS", yamlPath)

	cfg, err := GetSettings([]string{"-v", "2.0.0", "-c", jsonPath})
	require.NoError(t, err)

	assert.Equal(t, "orders", cfg.Service.Name)
	assert.Equal(t, "2.0.0", cfg.Service.Version)
	assert.Equal(t, "from-json", cfg.Storage.DSN)
	assert.Equal(t, "localhost:4222", cfg.PubSub.HostPort)
}

func TestGetSettings_BadFlag(t *testing.T) {
	t.Setenv("SERVICE_NAME", "orders")

	_, err := GetSettings([]string{"-unknown"})
	assert.Error(t, err)
}
