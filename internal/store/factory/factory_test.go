package factory

import (
	"testing"

	"github.com/totrackit/totrackit/internal/store"
)

func TestFactoryConfigSelection(t *testing.T) {
	// Empty type defaults to memory.
	st, err := New(store.Config{})
	if err != nil || st == nil {
		t.Fatalf("memory default: err=%v obj=%T", err, st)
	}
	_ = st.Close()

	s1, err := New(store.Config{Type: "sqlite", Path: ":memory:"})
	if err != nil || s1 == nil {
		t.Fatalf("sqlite: err=%v obj=%T", err, s1)
	}
	_ = s1.Close()

	// sql.Open does not connect, so construction succeeds without a server.
	p1, err := New(store.Config{Type: "postgres", DSN: "postgres://user@localhost/db"})
	if err != nil || p1 == nil {
		t.Fatalf("postgres: err=%v obj=%T", err, p1)
	}
	_ = p1.Close()

	if _, err := New(store.Config{Type: "redis"}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestFactoryDSNSelection(t *testing.T) {
	if _, err := NewFromDSN(""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
	m, err := NewFromDSN("memory://")
	if err != nil || m == nil {
		t.Fatalf("memory dsn: err=%v obj=%T", err, m)
	}
	s1, err := NewFromDSN("sqlite://:memory:")
	if err != nil || s1 == nil {
		t.Fatalf("sqlite scheme: err=%v obj=%T", err, s1)
	}
	_ = s1.Close()
	s2, err := NewFromDSN(":memory:")
	if err != nil || s2 == nil {
		t.Fatalf("bare sqlite: err=%v obj=%T", err, s2)
	}
	_ = s2.Close()
	pg, err := NewFromDSN("postgres://user@localhost/db")
	if err != nil || pg == nil {
		t.Fatalf("postgres dsn: err=%v obj=%T", err, pg)
	}
	_ = pg.Close()
	if _, err := NewFromDSN("redis://localhost"); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}
