package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses settings flags from args (without the program name).
//
// Flags:
//
//	-a http listen address in format [host]:[port]
//	-n service name
//	-v service version
//	-d storage DSN
//	-pubsub pub/sub broker host:port
//	-seq Seq server URL
//	-telemetry OTLP collector host:port
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-shutdown-timeout graceful shutdown bound (e.g., "10s")
//	-tls-cert/-tls-key certificate and key paths
//	-c/-config json settings file path
//	-s/-settings yaml settings file path
func parseFlags(args []string) (*Settings, error) {
	var httpAddress NetAddress
	var name, version string
	var dsn, pubSubHostPort string
	var seqURL, telemetryEndpoint string
	var tokenSignKey, tokenIssuer string
	var shutdownTimeout time.Duration
	var certFile, keyFile string
	var jsonPath, yamlPath string

	fs := flag.NewFlagSet("service", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&httpAddress, "a", "Net address host:port")
	fs.StringVar(&name, "n", "", "Service name")
	fs.StringVar(&version, "v", "", "Service version")
	fs.StringVar(&dsn, "d", "", "Storage DSN")
	fs.StringVar(&pubSubHostPort, "pubsub", "", "Pub/sub broker host:port")
	fs.StringVar(&seqURL, "seq", "", "Seq server URL")
	fs.StringVar(&telemetryEndpoint, "telemetry", "", "OTLP collector host:port")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (e.g., 10s)")
	fs.StringVar(&certFile, "tls-cert", "", "TLS certificate path")
	fs.StringVar(&keyFile, "tls-key", "", "TLS private key path")
	fs.StringVar(&jsonPath, "c", "", "JSON settings file path")
	fs.StringVar(&jsonPath, "config", "", "JSON settings file path (alias)")
	fs.StringVar(&yamlPath, "s", "", "YAML settings file path")
	fs.StringVar(&yamlPath, "settings", "", "YAML settings file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &Settings{
		Service: Service{
			Name:    name,
			Version: version,
		},
		Server: Server{
			HTTPAddress:     httpAddress.String(),
			ShutdownTimeout: shutdownTimeout,
		},
		Telemetry: Telemetry{
			Endpoint: telemetryEndpoint,
		},
		Logging: Logging{
			SeqURL: seqURL,
		},
		Storage: Storage{
			DSN: dsn,
		},
		PubSub: PubSub{
			HostPort: pubSubHostPort,
		},
		Auth: Auth{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		TLS: TLS{
			CertFile: certFile,
			KeyFile:  keyFile,
		},
		JSONFilePath: jsonPath,
		YAMLFilePath: yamlPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
