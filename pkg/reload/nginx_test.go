package reload

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// stubNginx writes an executable shell script that records its
// arguments and exits with the given code.
func stubNginx(t *testing.T, exitCode int) (binary, argsFile string) {
	t.Helper()

	dir := t.TempDir()
	binary = filepath.Join(dir, "nginx")
	argsFile = filepath.Join(dir, "args")

	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\necho 'nginx output'\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}
	return binary, argsFile
}

func recordedArgs(t *testing.T, argsFile string) string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("failed to read recorded args: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func TestNginxControllerValidate(t *testing.T) {
	binary, argsFile := stubNginx(t, 0)
	ctrl := NewNginxController(binary, "")

	if err := ctrl.Validate(context.Background()); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if got := recordedArgs(t, argsFile); got != "-t" {
		t.Errorf("expected args '-t', got %q", got)
	}
}

func TestNginxControllerReload(t *testing.T) {
	binary, argsFile := stubNginx(t, 0)
	ctrl := NewNginxController(binary, "")

	if err := ctrl.Reload(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := recordedArgs(t, argsFile); got != "-s reload" {
		t.Errorf("expected args '-s reload', got %q", got)
	}
}

func TestNginxControllerPassesConfPath(t *testing.T) {
	binary, argsFile := stubNginx(t, 0)
	ctrl := NewNginxController(binary, "/etc/nginx/atlas.conf")

	if err := ctrl.Validate(context.Background()); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if got := recordedArgs(t, argsFile); got != "-c /etc/nginx/atlas.conf -t" {
		t.Errorf("expected conf path before -t, got %q", got)
	}
}

func TestNginxControllerValidateFailureIncludesOutput(t *testing.T) {
	binary, _ := stubNginx(t, 1)
	ctrl := NewNginxController(binary, "")

	err := ctrl.Validate(context.Background())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "nginx output") {
		t.Errorf("expected command output in error, got %q", err.Error())
	}
}

func TestNginxControllerDefaults(t *testing.T) {
	ctrl := NewNginxController("", "")
	if ctrl.Binary != "nginx" {
		t.Errorf("expected default binary nginx, got %q", ctrl.Binary)
	}
	if ctrl.Timeout <= 0 {
		t.Error("expected a positive default timeout")
	}
}
