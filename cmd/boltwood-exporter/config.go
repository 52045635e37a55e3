package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Diffraction-Limited/goboltwood/internal/exporter"
	"github.com/Diffraction-Limited/goboltwood/internal/transport"
)

type exporterConfig struct {
	Transport  transport.Config
	Exporter   exporter.Config
	ListenAddr string
	MQTT       mqttConfig
}

type mqttConfig struct {
	Broker      string
	ClientID    string
	TopicPrefix string
}

type fileConfig struct {
	Port         string `toml:"port"`
	BaudRate     int    `toml:"baud_rate"`
	ReadTimeout  string `toml:"read_timeout"`
	PollInterval string `toml:"poll_interval"`
	ListenAddr   string `toml:"listen_addr"`

	MQTT struct {
		Broker      string `toml:"broker"`
		ClientID    string `toml:"client_id"`
		TopicPrefix string `toml:"topic_prefix"`
	} `toml:"mqtt"`
}

func defaultExporterConfig() exporterConfig {
	return exporterConfig{
		Transport:  transport.DefaultConfig(),
		Exporter:   exporter.DefaultConfig(),
		ListenAddr: ":9120",
		MQTT: mqttConfig{
			ClientID:    "boltwood-exporter",
			TopicPrefix: "boltwood",
		},
	}
}

func loadExporterConfig(path string) (exporterConfig, error) {
	cfg := defaultExporterConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return exporterConfig{}, fmt.Errorf("load exporter config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Transport.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud_rate") {
		if raw.BaudRate <= 0 {
			return exporterConfig{}, fmt.Errorf("baud_rate must be positive: %d", raw.BaudRate)
		}
		cfg.Transport.BaudRate = raw.BaudRate
	}
	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return exporterConfig{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.Transport.ReadTimeout = d
	}
	if meta.IsDefined("poll_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PollInterval))
		if err != nil {
			return exporterConfig{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		if d <= 0 {
			return exporterConfig{}, fmt.Errorf("poll_interval must be positive: %v", d)
		}
		cfg.Exporter.PollInterval = d
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("mqtt", "broker") {
		cfg.MQTT.Broker = strings.TrimSpace(raw.MQTT.Broker)
	}
	if meta.IsDefined("mqtt", "client_id") {
		cfg.MQTT.ClientID = strings.TrimSpace(raw.MQTT.ClientID)
	}
	if meta.IsDefined("mqtt", "topic_prefix") {
		cfg.MQTT.TopicPrefix = strings.TrimSpace(raw.MQTT.TopicPrefix)
	}

	return cfg, nil
}
