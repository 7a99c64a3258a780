package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/go-overlay/internal/config"
)

const exampleConfig = "../../test/configs/overlay.lua"

func TestVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nope"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestHelpFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-h"}, &stdout, &stderr); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "-headless") {
		t.Errorf("usage should list flags, got %q", stderr.String())
	}
}

func TestConfigFileNotFound(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-c", "/nonexistent/overlay.lua", "-check"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "not found") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCheckExampleConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-c", exampleConfig, "-check"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "3 widgets, 3 bodies") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestCheckDefaultsWarnsAboutEmptyScene(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-check"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "warning:") {
		t.Errorf("expected an empty-scene warning, got %q", stdout.String())
	}
}

func TestCheckInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.lua")
	content := "overlay.config = { screen_width = 0 }"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-c", path, "-check"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "error:") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, false, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	logger, err = newLogger(config.LoggingConfig{Level: "error"}, true, &buf)
	if err != nil {
		t.Fatalf("newLogger debug: %v", err)
	}
	logger.Debug("verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Errorf("-debug should log at debug level, got %q", buf.String())
	}

	if _, err := newLogger(config.LoggingConfig{Level: "loud"}, false, &buf); err == nil {
		t.Error("expected error for unknown level")
	}
}
