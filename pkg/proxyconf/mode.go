package proxyconf

// Mode is the proxy configuration variant chosen at startup.
type Mode int

const (
	// ModeHTTPOnly serves plain HTTP. Selected for the dev stage
	// regardless of certificate presence.
	ModeHTTPOnly Mode = iota

	// ModeACMEBootstrap serves plain HTTP plus the ACME challenge
	// path while waiting for the first certificate to be issued.
	ModeACMEBootstrap

	// ModeTLSActive serves TLS with the stored bundle and redirects
	// HTTP to HTTPS, keeping the challenge path reachable over HTTP.
	ModeTLSActive
)

// Deployment stages.
const (
	StageDev        = "dev"
	StageProduction = "production"
)

func (m Mode) String() string {
	switch m {
	case ModeHTTPOnly:
		return "http_only"
	case ModeACMEBootstrap:
		return "acme_bootstrap"
	case ModeTLSActive:
		return "tls_active"
	default:
		return "unknown"
	}
}

// Select implements the mode decision table:
//
//	dev        | any bundle state | http_only
//	production | bundle present   | tls_active
//	production | bundle missing   | acme_bootstrap
func Select(stage string, bundlePresent bool) Mode {
	if stage != StageProduction {
		return ModeHTTPOnly
	}
	if bundlePresent {
		return ModeTLSActive
	}
	return ModeACMEBootstrap
}
