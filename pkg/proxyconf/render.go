package proxyconf

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.conf.tmpl
var templateFS embed.FS

// TemplateData carries the values substituted into a configuration
// variant.
type TemplateData struct {
	// ServerName is the primary domain.
	ServerName string

	// AltNames are additional domains served alongside ServerName.
	AltNames []string

	// CertPath and KeyPath point at the bundle inside the shared
	// certificate store. Only the TLS variant references them.
	CertPath string
	KeyPath  string

	// ChallengeRoot is the webroot directory served at
	// /.well-known/acme-challenge/ in every variant.
	ChallengeRoot string

	// UpstreamAddr is the backend the proxy forwards requests to.
	UpstreamAddr string

	// MaxBodySize is the request body limit (nginx size syntax,
	// e.g. "10m").
	MaxBodySize string
}

// ServerNames renders the full space-separated server_name value.
func (d TemplateData) ServerNames() string {
	names := append([]string{d.ServerName}, d.AltNames...)
	return strings.Join(names, " ")
}

var templates = template.Must(template.ParseFS(templateFS, "templates/*.conf.tmpl"))

func templateName(mode Mode) string {
	switch mode {
	case ModeHTTPOnly:
		return "http_only.conf.tmpl"
	case ModeACMEBootstrap:
		return "acme_bootstrap.conf.tmpl"
	case ModeTLSActive:
		return "tls_active.conf.tmpl"
	default:
		return ""
	}
}

// Render produces the configuration artifact for a mode.
func Render(mode Mode, data TemplateData) ([]byte, error) {
	name := templateName(mode)
	if name == "" {
		return nil, fmt.Errorf("no template for mode %v", mode)
	}
	if data.ServerName == "" {
		return nil, fmt.Errorf("server name is required")
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// WriteConfig writes the rendered artifact to the active configuration
// path atomically, so the serving process never reads a partial file.
func WriteConfig(path string, rendered []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, rendered, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to activate configuration: %w", err)
	}

	return nil
}

// Materialize selects a mode, renders its variant and writes it to the
// active configuration path. This is the whole startup duty of the
// selector; it performs no network calls and never touches the
// certificate store.
func Materialize(stage string, bundlePresent bool, confPath string, data TemplateData) (Mode, error) {
	mode := Select(stage, bundlePresent)

	rendered, err := Render(mode, data)
	if err != nil {
		return mode, err
	}
	if err := WriteConfig(confPath, rendered); err != nil {
		return mode, err
	}

	return mode, nil
}
