package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/totrackit/totrackit/internal/logger"
	"github.com/totrackit/totrackit/internal/store"
)

// Config represents the top-level TOML structure:
//
//	[server]
//	listen = ":8080"
//	base_path = "/api"
//
//	[store]
//	type = "postgres"
//	dsn = "postgres://..."
//
//	[log]
//	level = "info"
//
//	[metrics]
//	enabled = true
//	update_interval = "30s"
//
//	[history]
//	dsn = "clickhouse://localhost:9000?table=process_events"
type Config struct {
	Server  ServerConfig  `toml:"server" mapstructure:"server"`
	Store   store.Config  `toml:"store" mapstructure:"store"`
	Log     logger.Config `toml:"log" mapstructure:"log"`
	Metrics MetricsConfig `toml:"metrics" mapstructure:"metrics"`
	History HistoryConfig `toml:"history" mapstructure:"history"`
}

type ServerConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

type MetricsConfig struct {
	Enabled        bool          `toml:"enabled" mapstructure:"enabled"`
	UpdateInterval time.Duration `toml:"update_interval" mapstructure:"update_interval"`
}

type HistoryConfig struct {
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

// Default returns the config used when no file is given.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Listen: ":8080"},
		Store:   store.Config{Type: "memory"},
		Metrics: MetricsConfig{Enabled: true, UpdateInterval: 30 * time.Second},
	}
}

// Load parses a TOML config file. Missing sections fall back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the serve command cannot honor.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "", "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store type sqlite requires path")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store type postgres requires dsn")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server listen address required")
	}
	if c.Metrics.UpdateInterval < 0 {
		return fmt.Errorf("metrics update_interval must not be negative")
	}
	return nil
}
