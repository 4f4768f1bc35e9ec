package store

import (
	"context"
	"errors"

	"github.com/totrackit/totrackit/internal/process"
)

// ErrNotFound is returned when no process matches a lookup.
var ErrNotFound = errors.New("process not found")

// ErrDuplicateActive is returned by Save when an ACTIVE process with the
// same (name, process_id) already exists. Backends must detect this from a
// typed driver error raised by a single atomic insert, never from a
// separate existence check.
var ErrDuplicateActive = errors.New("active process already exists")

// ErrNotActive is returned by Update when the row is no longer ACTIVE.
// Terminal states are final; a lost completion race surfaces as this.
var ErrNotActive = errors.New("process is not active")

// Query carries the predicates a backend can evaluate natively. Name and
// ID are exact matches; Status is an exact match. Everything derived
// (deadline status, duration, tags) is filtered in memory by the caller.
type Query struct {
	Name   string
	ID     string
	Status process.Status
}

// Store is the persistence contract for tracked processes.
// Implementations must be safe for concurrent use. Save and Update are
// each a single atomic read-modify-write; uniqueness of the ACTIVE row
// per (name, process_id) is the store's responsibility.
type Store interface {
	EnsureSchema(ctx context.Context) error

	// Save inserts p and assigns its store identity. Returns
	// ErrDuplicateActive when an ACTIVE duplicate exists.
	Save(ctx context.Context, p *process.Process) error

	// FindByNameAndID returns the most recently started process with the
	// pair, or ErrNotFound.
	FindByNameAndID(ctx context.Context, name, id string) (*process.Process, error)

	// Update transitions the row identified by p.ID out of ACTIVE,
	// persisting status and completed_at as a single conditional write.
	// Returns ErrNotActive when the row already left ACTIVE and
	// ErrNotFound when no such row exists.
	Update(ctx context.Context, p *process.Process) error

	// FindByFilters returns all rows matching q, newest started first.
	FindByFilters(ctx context.Context, q Query) ([]*process.Process, error)

	CountByStatus(ctx context.Context, status process.Status) (int64, error)

	Close() error
}

// Pinger is implemented by backends that can cheaply verify connectivity;
// the readiness probe uses it when available.
type Pinger interface {
	Ping(ctx context.Context) error
}
