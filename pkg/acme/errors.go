package acme

import (
	"fmt"
	"strings"
)

// Class buckets order failures for logging and retry decisions. Most
// classes are retried on the next scheduled tick; permission failures
// are treated as fatal misconfiguration because they never self-heal.
type Class string

const (
	ClassDNS        Class = "dns"
	ClassNetwork    Class = "network"
	ClassRateLimit  Class = "rate_limit"
	ClassValidation Class = "validation"
	ClassPermission Class = "permission"
	ClassUnknown    Class = "unknown"
)

// OrderError wraps an order failure with its classification.
type OrderError struct {
	Class Class
	Err   error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("acme order failed (%s): %v", e.Class, e.Err)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// Classify maps an error onto a failure class by inspecting its text.
// The ACME client reports failures as opaque errors, so this is
// necessarily pattern matching rather than type inspection.
func Classify(err error) Class {
	if err == nil {
		return ClassUnknown
	}

	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "no such host", "dns problem", "nxdomain", "could not resolve"):
		return ClassDNS
	case containsAny(msg, "rate limit", "ratelimited", "too many", "429"):
		return ClassRateLimit
	case containsAny(msg, "validation", "challenge", "unauthorized", "invalid response"):
		return ClassValidation
	case containsAny(msg, "permission denied", "read-only file system"):
		return ClassPermission
	case containsAny(msg, "connection refused", "network is unreachable", "timeout", "i/o timeout", "connection reset", "temporary failure", "503"):
		return ClassNetwork
	default:
		return ClassUnknown
	}
}

// Diagnostic returns an actionable hint for a failure class, used to
// enrich log output. Empty when there is nothing useful to suggest.
func Diagnostic(class Class) string {
	switch class {
	case ClassDNS:
		return "check that the domain's A/AAAA records point at this host"
	case ClassValidation:
		return "check that port 80 is reachable from the internet and the challenge path is served"
	case ClassRateLimit:
		return "upstream rate limit hit; the next scheduled tick will retry"
	case ClassPermission:
		return "check filesystem permissions on the certificate and challenge directories"
	default:
		return ""
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
