package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Diffraction-Limited/goboltwood/internal/transport"
)

type fileConfig struct {
	Port        string `toml:"port"`
	BaudRate    int    `toml:"baud_rate"`
	ReadTimeout string `toml:"read_timeout"`
}

func loadTransportConfig(path string) (transport.Config, error) {
	cfg := transport.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return transport.Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}

	if meta.IsDefined("baud_rate") {
		if raw.BaudRate <= 0 {
			return transport.Config{}, fmt.Errorf("baud_rate must be positive: %d", raw.BaudRate)
		}
		cfg.BaudRate = raw.BaudRate
	}

	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return transport.Config{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	return cfg, nil
}
