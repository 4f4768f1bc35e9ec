package store

import "time"

// Config selects and configures a store backend.
type Config struct {
	Type string `toml:"type" mapstructure:"type"` // "memory", "sqlite", "postgres"

	// SQLite
	Path string `toml:"path,omitempty" mapstructure:"path"`

	// PostgreSQL
	DSN string `toml:"dsn,omitempty" mapstructure:"dsn"`

	// Connection pooling (postgres)
	MaxOpenConns int           `toml:"max_open_conns,omitempty" mapstructure:"max_open_conns"`
	MaxIdleConns int           `toml:"max_idle_conns,omitempty" mapstructure:"max_idle_conns"`
	ConnMaxAge   time.Duration `toml:"conn_max_age,omitempty" mapstructure:"conn_max_age"`
}
