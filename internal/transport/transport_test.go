package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kestrelworks/otaboot/internal/infrastructure/config"
)

// writeTestCredentials generates a self-signed certificate and key pair
// and writes them as PEM files. The same certificate doubles as root CA
// and client certificate, which is enough to exercise Init.
func writeTestCredentials(t *testing.T) (caPath, certPath, keyPath string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "otaboot-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		IsCA:         true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshalling key: %v", err)
	}

	dir := t.TempDir()
	caPath = filepath.Join(dir, "ca.pem")
	certPath = filepath.Join(dir, "cert.pem")
	keyPath = filepath.Join(dir, "key.pem")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	for path, data := range map[string][]byte{
		caPath:   certPEM,
		certPath: certPEM,
		keyPath:  keyPEM,
	} {
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}

	return caPath, certPath, keyPath
}

func TestInit_Disabled(t *testing.T) {
	tr, err := Init(config.TLSConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if tr == nil {
		t.Fatal("Init() returned nil transport")
	}
	if tr.TLSConfig() != nil {
		t.Error("TLSConfig() should be nil for plaintext transport")
	}
	if tr.Secured() {
		t.Error("Secured() = true for plaintext transport")
	}
}

func TestInit_WithCredentials(t *testing.T) {
	caPath, certPath, keyPath := writeTestCredentials(t)

	tr, err := Init(config.TLSConfig{
		Enabled:    true,
		RootCA:     caPath,
		ClientCert: certPath,
		PrivateKey: keyPath,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	tlsConf := tr.TLSConfig()
	if tlsConf == nil {
		t.Fatal("TLSConfig() = nil, want configured TLS")
	}
	if tlsConf.RootCAs == nil {
		t.Error("RootCAs not populated")
	}
	if len(tlsConf.Certificates) != 1 {
		t.Errorf("Certificates count = %d, want 1", len(tlsConf.Certificates))
	}
	if !tr.Secured() {
		t.Error("Secured() = false for TLS transport")
	}
}

func TestInit_MissingRootCA(t *testing.T) {
	_, certPath, keyPath := writeTestCredentials(t)

	_, err := Init(config.TLSConfig{
		Enabled:    true,
		RootCA:     "/nonexistent/ca.pem",
		ClientCert: certPath,
		PrivateKey: keyPath,
	})
	if !errors.Is(err, ErrInitFailed) {
		t.Errorf("Init() error = %v, want ErrInitFailed", err)
	}
}

func TestInit_InvalidRootCA(t *testing.T) {
	_, certPath, keyPath := writeTestCredentials(t)

	badCA := filepath.Join(t.TempDir(), "bad.pem")
	if err := os.WriteFile(badCA, []byte("not a certificate"), 0600); err != nil {
		t.Fatalf("writing bad CA: %v", err)
	}

	_, err := Init(config.TLSConfig{
		Enabled:    true,
		RootCA:     badCA,
		ClientCert: certPath,
		PrivateKey: keyPath,
	})
	if !errors.Is(err, ErrInitFailed) {
		t.Errorf("Init() error = %v, want ErrInitFailed", err)
	}
}

func TestInit_MissingKeyPair(t *testing.T) {
	caPath, _, _ := writeTestCredentials(t)

	_, err := Init(config.TLSConfig{
		Enabled:    true,
		RootCA:     caPath,
		ClientCert: "/nonexistent/cert.pem",
		PrivateKey: "/nonexistent/key.pem",
	})
	if !errors.Is(err, ErrInitFailed) {
		t.Errorf("Init() error = %v, want ErrInitFailed", err)
	}
}

func TestTLSConfig_NilReceiver(t *testing.T) {
	var tr *Transport
	if tr.TLSConfig() != nil {
		t.Error("nil transport should yield nil TLS config")
	}
	if tr.Secured() {
		t.Error("nil transport should not be secured")
	}
}
