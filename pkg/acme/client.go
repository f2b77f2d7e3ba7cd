package acme

import (
	"context"
)

// OrderRequest describes a certificate order for a set of domains.
// The first domain is the primary name; any others become subject
// alternative names on the same certificate.
type OrderRequest struct {
	Domains []string
	Email   string
}

// IssuedCertificate is the PEM material returned by a successful order.
type IssuedCertificate struct {
	ChainPEM  []byte
	KeyPEM    []byte
	IssuerPEM []byte
}

// Client obtains certificates from a certificate authority. Obtain is
// idempotent from the caller's point of view: invoking it again for the
// same domain set is safe and simply produces fresh material.
type Client interface {
	Obtain(ctx context.Context, req OrderRequest) (*IssuedCertificate, error)
}
