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
	path := filepath.Join(t.TempDir(), "exporter.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadExporterConfigOverlaysDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
port = "/dev/ttyACM0"
poll_interval = "15s"

[mqtt]
broker = "tcp://broker.local:1883"
topic_prefix = "observatory/weather"
`)
	cfg, err := loadExporterConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Transport.Port != "/dev/ttyACM0" {
		t.Fatalf("port: %q", cfg.Transport.Port)
	}
	if cfg.Exporter.PollInterval != 15*time.Second {
		t.Fatalf("poll_interval: %v", cfg.Exporter.PollInterval)
	}
	if cfg.MQTT.Broker != "tcp://broker.local:1883" {
		t.Fatalf("broker: %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.TopicPrefix != "observatory/weather" {
		t.Fatalf("topic_prefix: %q", cfg.MQTT.TopicPrefix)
	}
	// untouched keys keep their defaults
	if cfg.ListenAddr != ":9120" {
		t.Fatalf("listen_addr default lost: %q", cfg.ListenAddr)
	}
	if cfg.MQTT.ClientID != "boltwood-exporter" {
		t.Fatalf("client_id default lost: %q", cfg.MQTT.ClientID)
	}
}

func TestLoadExporterConfigRejectsNonPositivePollInterval(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `poll_interval = "0s"`)
	if _, err := loadExporterConfig(path); err == nil {
		t.Fatalf("expected error for zero poll interval")
	}
}

func TestLoadExporterConfigMQTTDisabledByDefault(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `port = "/dev/ttyUSB1"`)
	cfg, err := loadExporterConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MQTT.Broker != "" {
		t.Fatalf("mqtt broker should default empty, got %q", cfg.MQTT.Broker)
	}
}
