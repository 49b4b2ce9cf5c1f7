package config

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// fileSettings is the shape shared by JSON and YAML settings files.
type fileSettings struct {
	Service struct {
		Name    string `json:"name" yaml:"name"`
		Version string `json:"version" yaml:"version"`
	} `json:"service,omitempty" yaml:"service,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address" yaml:"http_address"`
		ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	} `json:"server,omitempty" yaml:"server,omitempty"`

	Telemetry struct {
		Endpoint      string   `json:"endpoint" yaml:"endpoint"`
		Insecure      bool     `json:"insecure" yaml:"insecure"`
		SampleRate    float64  `json:"sample_rate" yaml:"sample_rate"`
		FlushInterval Duration `json:"flush_interval" yaml:"flush_interval"`
	} `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`

	Logging struct {
		SeqURL        string   `json:"seq_url" yaml:"seq_url"`
		FlushInterval Duration `json:"flush_interval" yaml:"flush_interval"`
	} `json:"logging,omitempty" yaml:"logging,omitempty"`

	Storage struct {
		DSN           string   `json:"dsn" yaml:"dsn"`
		RetryInterval Duration `json:"retry_interval" yaml:"retry_interval"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	PubSub struct {
		HostPort      string   `json:"host_port" yaml:"host_port"`
		RetryInterval Duration `json:"retry_interval" yaml:"retry_interval"`
	} `json:"pubsub,omitempty" yaml:"pubsub,omitempty"`

	Auth struct {
		TokenSignKey string `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer" yaml:"token_issuer"`
	} `json:"auth,omitempty" yaml:"auth,omitempty"`

	TLS struct {
		CertFile string `json:"cert_file" yaml:"cert_file"`
		KeyFile  string `json:"key_file" yaml:"key_file"`
	} `json:"tls,omitempty" yaml:"tls,omitempty"`
}

func (f *fileSettings) toSettings() *Settings {
	return &Settings{
		Service: Service{
			Name:    f.Service.Name,
			Version: f.Service.Version,
		},
		Server: Server{
			HTTPAddress:     f.Server.HTTPAddress,
			ShutdownTimeout: time.Duration(f.Server.ShutdownTimeout),
		},
		Telemetry: Telemetry{
			Endpoint:      f.Telemetry.Endpoint,
			Insecure:      f.Telemetry.Insecure,
			SampleRate:    f.Telemetry.SampleRate,
			FlushInterval: time.Duration(f.Telemetry.FlushInterval),
		},
		Logging: Logging{
			SeqURL:        f.Logging.SeqURL,
			FlushInterval: time.Duration(f.Logging.FlushInterval),
		},
		Storage: Storage{
			DSN:           f.Storage.DSN,
			RetryInterval: time.Duration(f.Storage.RetryInterval),
		},
		PubSub: PubSub{
			HostPort:      f.PubSub.HostPort,
			RetryInterval: time.Duration(f.PubSub.RetryInterval),
		},
		Auth: Auth{
			TokenSignKey: f.Auth.TokenSignKey,
			TokenIssuer:  f.Auth.TokenIssuer,
		},
		TLS: TLS{
			CertFile: f.TLS.CertFile,
			KeyFile:  f.TLS.KeyFile,
		},
	}
}

// Duration is a wrapper around time.Duration that supports JSON and YAML
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	tmp, err := time.ParseDuration(s)
	if err != nil {
		var n int64
		if numErr := node.Decode(&n); numErr != nil {
			return err
		}
		tmp = time.Duration(n)
	}
	*d = Duration(tmp)
	return nil
}
