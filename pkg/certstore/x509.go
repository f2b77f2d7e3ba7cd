package certstore

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"time"
)

// ValidateKeyPair checks that the chain and key PEM form a usable TLS
// certificate and that the leaf is inside its validity window. The
// lifecycle manager runs this on freshly obtained material before it
// replaces a working bundle.
func ValidateKeyPair(chainPEM, keyPEM []byte) (*x509.Certificate, error) {
	pair, err := tls.X509KeyPair(chainPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("certificate and key do not match: %w", err)
	}
	if len(pair.Certificate) == 0 {
		return nil, fmt.Errorf("certificate chain is empty")
	}

	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse leaf certificate: %w", err)
	}

	if err := ValidateX509(leaf, time.Now()); err != nil {
		return nil, err
	}

	return leaf, nil
}

// ValidateX509 checks a certificate's validity window against the given
// time.
func ValidateX509(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from %s)", cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate expired on %s", cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}

// CheckExpiration returns the whole days until expiry and a warning
// string when fewer than 30 days remain. The warning is empty otherwise.
func CheckExpiration(cert *x509.Certificate, now time.Time) (daysUntilExpiry int, warning string) {
	daysUntilExpiry = int(cert.NotAfter.Sub(now).Hours() / 24)

	if daysUntilExpiry < 30 {
		warning = fmt.Sprintf("certificate expires in %d days (on %s)",
			daysUntilExpiry, cert.NotAfter.Format("2006-01-02"))
	}

	return daysUntilExpiry, warning
}
