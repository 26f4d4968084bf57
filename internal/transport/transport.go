package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/kestrelworks/otaboot/internal/infrastructure/config"
)

// Transport is the secure-socket layer handle produced by Init.
//
// It carries the TLS credential material the messaging client binds at
// connect time. A nil *Transport (or one with a nil TLSConfig) selects a
// plaintext connection; the OTA agent's network parameters must only ever
// reference a Transport obtained from a successful Init.
type Transport struct {
	tlsConfig *tls.Config
}

// Init initializes the secure transport layer from the configured
// credential material.
//
// When TLS is enabled it loads, in order:
//  1. The root CA certificate (broker verification)
//  2. The client certificate and private key (mutual authentication)
//
// Any failure is returned to the caller; the boot sequence treats it as
// fatal because a misconfigured transport stack cannot be recovered by
// waiting or retrying.
//
// Parameters:
//   - cfg: TLS configuration from config.yaml
//
// Returns:
//   - *Transport: Initialized transport handle
//   - error: If any credential file cannot be read or parsed
func Init(cfg config.TLSConfig) (*Transport, error) {
	if !cfg.Enabled {
		return &Transport{}, nil
	}

	caPEM, err := os.ReadFile(cfg.RootCA)
	if err != nil {
		return nil, fmt.Errorf("%w: reading root CA %s: %w", ErrInitFailed, cfg.RootCA, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("%w: no certificates parsed from %s", ErrInitFailed, cfg.RootCA)
	}

	cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: loading client key pair: %w", ErrInitFailed, err)
	}

	return &Transport{
		tlsConfig: &tls.Config{
			RootCAs:      pool,
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}, nil
}

// TLSConfig returns the TLS configuration for the messaging client,
// or nil when the transport is plaintext.
func (t *Transport) TLSConfig() *tls.Config {
	if t == nil {
		return nil
	}
	return t.tlsConfig
}

// Secured reports whether the transport carries TLS credentials.
func (t *Transport) Secured() bool {
	return t != nil && t.tlsConfig != nil
}
