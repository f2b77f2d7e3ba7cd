package reload

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// NginxController implements Controller by shelling out to the nginx
// binary: `nginx -t` for validation and `nginx -s reload` for the
// graceful swap (existing connections drain on the old workers).
type NginxController struct {
	// Binary is the nginx executable. Default: "nginx".
	Binary string

	// ConfPath, when set, is passed via -c so validation checks the
	// same entrypoint the server runs with.
	ConfPath string

	// Timeout bounds each invocation. Default: 30 seconds.
	Timeout time.Duration
}

// NewNginxController creates a controller with defaults applied.
func NewNginxController(binary, confPath string) *NginxController {
	if binary == "" {
		binary = "nginx"
	}
	return &NginxController{
		Binary:   binary,
		ConfPath: confPath,
		Timeout:  30 * time.Second,
	}
}

// Validate runs the configuration check.
func (c *NginxController) Validate(ctx context.Context) error {
	out, err := c.run(ctx, "-t")
	if err != nil {
		return fmt.Errorf("nginx configuration validation failed: %w: %s", err, out)
	}
	return nil
}

// Reload signals a graceful reload.
func (c *NginxController) Reload(ctx context.Context) error {
	out, err := c.run(ctx, "-s", "reload")
	if err != nil {
		return fmt.Errorf("nginx reload failed: %w: %s", err, out)
	}
	return nil
}

func (c *NginxController) run(ctx context.Context, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.ConfPath != "" {
		args = append([]string{"-c", c.ConfPath}, args...)
	}

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
