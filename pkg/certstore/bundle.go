package certstore

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"
)

const (
	// CertFileName is the certificate chain file inside a domain directory.
	CertFileName = "fullchain.pem"
	// KeyFileName is the private key file inside a domain directory.
	KeyFileName = "privkey.pem"
)

// Bundle describes the certificate material stored for a single domain.
// NotBefore and NotAfter come from the leaf certificate; ModTime is the
// store's modification time for the chain file, which the lifecycle
// manager uses to tell an actual renewal from a no-op tick.
type Bundle struct {
	Domain    string
	CertPath  string
	KeyPath   string
	NotBefore time.Time
	NotAfter  time.Time
	ModTime   time.Time
}

// TimeToExpiry returns how long the bundle remains valid from now.
// Negative values mean the certificate has already expired.
func (b *Bundle) TimeToExpiry(now time.Time) time.Duration {
	return b.NotAfter.Sub(now)
}

// ExpiresWithin reports whether the bundle expires inside the given
// threshold. This is the renewal decision: a renewal is attempted only
// when ExpiresWithin holds.
func (b *Bundle) ExpiresWithin(now time.Time, threshold time.Duration) bool {
	return b.TimeToExpiry(now) < threshold
}

// ParseLeaf decodes the first PEM block of a certificate chain and
// parses it as the leaf x509 certificate.
func ParseLeaf(chainPEM []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(chainPEM)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in certificate chain")
	}
	if block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse leaf certificate: %w", err)
	}

	return cert, nil
}
