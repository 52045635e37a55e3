package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTransportConfigOverlaysDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
port = "/dev/ttyUSB0"
read_timeout = "5s"
`)
	cfg, err := loadTransportConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "/dev/ttyUSB0" {
		t.Fatalf("port: %q", cfg.Port)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Fatalf("read_timeout: %v", cfg.ReadTimeout)
	}
	// untouched keys keep their defaults
	if cfg.BaudRate != 115200 {
		t.Fatalf("baud_rate default lost: %d", cfg.BaudRate)
	}
}

func TestLoadTransportConfigRejectsBadDuration(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `read_timeout = "fast"`)
	if _, err := loadTransportConfig(path); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}

func TestLoadTransportConfigRejectsNonPositiveBaud(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `baud_rate = 0`)
	if _, err := loadTransportConfig(path); err == nil {
		t.Fatalf("expected error for zero baud rate")
	}
}
