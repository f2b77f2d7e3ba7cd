package acme

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassUnknown},
		{"dns lookup", errors.New("dial tcp: lookup acme-v02.api.letsencrypt.org: no such host"), ClassDNS},
		{"dns problem", errors.New("acme: DNS problem: NXDOMAIN looking up A for example.com"), ClassDNS},
		{"rate limited", errors.New("acme: error: 429 :: too many certificates already issued"), ClassRateLimit},
		{"validation failed", errors.New("acme: error: 403 :: urn:ietf:params:acme:error:unauthorized :: Invalid response from http://example.com/.well-known/acme-challenge/x"), ClassValidation},
		{"challenge failed", errors.New("challenge failed for domain example.com"), ClassValidation},
		{"connection refused", errors.New("dial tcp 1.2.3.4:443: connect: connection refused"), ClassNetwork},
		{"timeout", errors.New("context deadline exceeded: i/o timeout"), ClassNetwork},
		{"permission", errors.New("open /etc/letsencrypt/live: permission denied"), ClassPermission},
		{"something else", errors.New("weird internal condition"), ClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestOrderErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &OrderError{Class: ClassNetwork, Err: fmt.Errorf("wrapped: %w", inner)}

	if !errors.Is(err, inner) {
		t.Error("expected OrderError to unwrap to the inner error")
	}

	var oe *OrderError
	if !errors.As(error(err), &oe) {
		t.Error("expected errors.As to find OrderError")
	}
}

func TestDiagnosticCoversActionableClasses(t *testing.T) {
	for _, class := range []Class{ClassDNS, ClassValidation, ClassRateLimit, ClassPermission} {
		if Diagnostic(class) == "" {
			t.Errorf("expected diagnostic for class %s", class)
		}
	}
	if Diagnostic(ClassUnknown) != "" {
		t.Error("expected no diagnostic for unknown class")
	}
}
