package factory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/totrackit/totrackit/internal/store"
	"github.com/totrackit/totrackit/internal/store/memory"
	pg "github.com/totrackit/totrackit/internal/store/postgres"
	sq "github.com/totrackit/totrackit/internal/store/sqlite"
)

// New builds a store from config. Supported types: "memory", "sqlite",
// "postgres"/"postgresql". An empty type defaults to memory.
func New(cfg store.Config) (store.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		return sq.New(cfg.Path)
	case "postgres", "postgresql":
		db, err := pg.New(cfg.DSN)
		if err != nil {
			return nil, err
		}
		db.Configure(cfg)
		return db, nil
	}
	return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
}

// NewFromDSN selects a store implementation based on DSN.
// Supported:
//   - "memory://"
//   - sqlite: "sqlite://<path>" or a bare filepath (treated as sqlite)
//   - postgres: DSN starting with "postgres://" or "postgresql://"
func NewFromDSN(dsn string) (store.Store, error) {
	d := strings.TrimSpace(dsn)
	ld := strings.ToLower(d)
	if ld == "" {
		return nil, errors.New("empty DSN")
	}
	if ld == "memory://" || ld == "memory" {
		return memory.New(), nil
	}
	if strings.HasPrefix(ld, "postgres://") || strings.HasPrefix(ld, "postgresql://") {
		return pg.New(d)
	}
	if strings.HasPrefix(ld, "sqlite://") {
		return sq.New(strings.TrimPrefix(d, "sqlite://"))
	}
	if strings.Contains(ld, "://") {
		return nil, fmt.Errorf("unsupported store DSN: %s", dsn)
	}
	// default to sqlite path
	return sq.New(d)
}
