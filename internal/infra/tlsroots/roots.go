package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when PEM data holds no certificate.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

// SystemPool returns a copy of the system roots, or an empty pool where the
// platform exposes none.
func SystemPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		return x509.NewCertPool()
	}
	return pool
}

// AppendPEM adds every CERTIFICATE block in data to pool and returns how many
// were added.
func AppendPEM(pool *x509.CertPool, data []byte) (int, error) {
	added := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return added, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		pool.AddCert(cert)
		added++
	}

	if added == 0 {
		return 0, ErrNoCertsFound
	}
	return added, nil
}

// ClientConfig returns a TLS client config trusting the system roots plus
// the certificates in caFile. An empty caFile returns nil, meaning the
// default transport settings.
func ClientConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read %s: %w", caFile, err)
	}

	pool := SystemPool()
	if _, err := AppendPEM(pool, data); err != nil {
		return nil, fmt.Errorf("%s: %w", caFile, err)
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
