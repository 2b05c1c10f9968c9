// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads ttlcache CLI settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type metricsCfg struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"`
}

// Config holds the CLI settings.
type Config struct {
	// DefaultTTL is in seconds. A negative value disables expiry for Put.
	DefaultTTL int        `toml:"defaultTTL"`
	Debug      bool       `toml:"debug"`
	Metrics    metricsCfg `toml:"metrics"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		DefaultTTL: 600,
		Metrics: metricsCfg{
			Enabled:   true,
			Namespace: "ttlcache",
		},
	}
}

// TTL returns DefaultTTL as a duration.
func (c *Config) TTL() time.Duration {
	if c.DefaultTTL < 0 {
		return -1
	}
	return time.Duration(c.DefaultTTL) * time.Second
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}
