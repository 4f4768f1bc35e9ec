package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/store"
)

// Store is an in-process store.Store for embedding and tests. The single
// mutex makes Save's duplicate check and insert one atomic step, which is
// the store-level guarantee the uniqueness invariant relies on.
type Store struct {
	mu     sync.Mutex
	nextID int64
	rows   []*process.Process
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) EnsureSchema(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Save(_ context.Context, p *process.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Status == process.StatusActive && r.Name == p.Name && r.ProcessID == p.ProcessID {
			return store.ErrDuplicateActive
		}
	}
	cp := clone(p)
	cp.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, cp)
	p.ID = cp.ID
	return nil
}

func (s *Store) FindByNameAndID(_ context.Context, name, id string) (*process.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *process.Process
	for _, r := range s.rows {
		if r.Name != name || r.ProcessID != id {
			continue
		}
		if best == nil || after(r, best) {
			best = r
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	return clone(best), nil
}

func (s *Store) Update(_ context.Context, p *process.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == p.ID {
			if r.Status != process.StatusActive {
				return store.ErrNotActive
			}
			s.rows[i] = clone(p)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FindByFilters(_ context.Context, q store.Query) ([]*process.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*process.Process, 0)
	for _, r := range s.rows {
		if q.Name != "" && r.Name != q.Name {
			continue
		}
		if q.ID != "" && r.ProcessID != q.ID {
			continue
		}
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		out = append(out, clone(r))
	}
	// newest started first, matching the SQL backends
	sort.SliceStable(out, func(i, j int) bool { return after(out[i], out[j]) })
	return out, nil
}

func (s *Store) CountByStatus(_ context.Context, status process.Status) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.rows {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

// after orders by (started_at, id) so ties between terminal re-runs
// resolve to the most recently inserted row.
func after(a, b *process.Process) bool {
	if a.StartedAt.Equal(b.StartedAt) {
		return a.ID > b.ID
	}
	return a.StartedAt.After(b.StartedAt)
}

func clone(p *process.Process) *process.Process {
	cp := *p
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		cp.CompletedAt = &t
	}
	if p.Deadline != nil {
		t := *p.Deadline
		cp.Deadline = &t
	}
	if p.Tags != nil {
		cp.Tags = make([]process.Tag, len(p.Tags))
		copy(cp.Tags, p.Tags)
	}
	if p.Context != nil {
		cp.Context = make(map[string]any, len(p.Context))
		for k, v := range p.Context {
			cp.Context[k] = v
		}
	}
	return &cp
}
