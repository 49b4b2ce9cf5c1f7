package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-service-sdk/internal/capability"
)

func TestSettingsReader_Enabled(t *testing.T) {
	r := NewSettingsReader(&Settings{
		Storage: Storage{DSN: "postgres://localhost/orders"},
		Logging: Logging{SeqURL: "http://seq:5341"},
	})

	assert.True(t, r.Enabled(capability.Storage))
	assert.True(t, r.Enabled(capability.LogShipping))
	assert.False(t, r.Enabled(capability.PubSub))
	assert.False(t, r.Enabled(capability.Telemetry))
	assert.False(t, r.Enabled(capability.GRPC), "grpc has no settings binding")
}

func TestSettingsReader_ServiceNameSuffix(t *testing.T) {
	r := NewSettingsReader(&Settings{Service: Service{Name: "orders"}})

	assert.Equal(t, "orders", r.ServiceName())

	t.Setenv(EnvServiceNameSuffix, "canary")
	assert.Equal(t, "orders-canary", r.ServiceName())

	assert.Empty(t, NewSettingsReader(&Settings{}).ServiceName(), "suffix alone is not a name")
}

func TestSettingsReader_ConcurrentUpdate(t *testing.T) {
	r := NewSettingsReader(&Settings{Storage: Storage{DSN: "a"}})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Update(Settings{Storage: Storage{DSN: "b"}})
		}()
		go func() {
			defer wg.Done()
			_ = r.StorageDSN()
		}()
	}
	wg.Wait()

	assert.Equal(t, "b", r.StorageDSN())
}

func TestNewSettingsReader_Nil(t *testing.T) {
	r := NewSettingsReader(nil)
	assert.Equal(t, Settings{}, r.Snapshot())
}
