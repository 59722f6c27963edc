package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ClientTLSConfig secures the connection to a model sidecar.
type ClientTLSConfig struct {
	Disabled                 bool   `mapstructure:"disabled"`
	CACert                   string `mapstructure:"ca_cert"`
	Certificate              string `mapstructure:"certificate"`
	PrivateKey               string `mapstructure:"private_key"`
	ServerName               string `mapstructure:"server_name"`
	DisableSystemCAPool      bool   `mapstructure:"disable_system_ca_pool"`
	AllowInsecureConnections bool   `mapstructure:"allow_insecure_connections"`
	MaxVersion               string `mapstructure:"max_version"`
}

// BuildClientTLSConfig returns nil when TLS is disabled.
func BuildClientTLSConfig(cfg ClientTLSConfig) (*tls.Config, error) {
	if cfg.Disabled {
		return nil, nil
	}

	var certificates []tls.Certificate
	if cfg.Certificate != "" && cfg.PrivateKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.Certificate, cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate/key: %w", err)
		}
		certificates = append(certificates, cert)
	}

	var rootCAs *x509.CertPool
	if cfg.DisableSystemCAPool {
		rootCAs = x509.NewCertPool()
	} else {
		var err error
		rootCAs, err = x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("failed to load system CA pool: %w", err)
		}
	}

	if cfg.CACert != "" {
		caBytes, err := os.ReadFile(cfg.CACert) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		if ok := rootCAs.AppendCertsFromPEM(caBytes); !ok {
			return nil, fmt.Errorf("failed to append CA certificate from %s", cfg.CACert)
		}
	}

	return &tls.Config{
		RootCAs:            rootCAs,
		Certificates:       certificates,
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: cfg.AllowInsecureConnections, // #nosec G402
		MinVersion:         tls.VersionTLS12,
		MaxVersion:         tlsVersion(cfg.MaxVersion),
	}, nil
}

func tlsVersion(version string) uint16 {
	switch version {
	case "TLS12":
		return tls.VersionTLS12
	default:
		return tls.VersionTLS13
	}
}
