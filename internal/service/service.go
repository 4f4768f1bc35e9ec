package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/totrackit/totrackit/internal/history"
	"github.com/totrackit/totrackit/internal/metrics"
	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/query"
	"github.com/totrackit/totrackit/internal/store"
)

// Service orchestrates the process lifecycle: creation with store-level
// uniqueness, the one-shot completion transition, and the list pipeline.
// It holds no mutable state of its own; the store is the only shared
// resource, so calls may run concurrently without extra locking.
type Service struct {
	store  store.Store
	now    func() time.Time
	logger *slog.Logger
	sink   history.Sink
}

type Option func(*Service)

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithHistorySink enables best-effort export of lifecycle events.
func WithHistorySink(sink history.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		now:    func() time.Time { return time.Now().UTC() },
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create registers a process start. The store enforces uniqueness of the
// ACTIVE (name, id) pair atomically; a constraint conflict surfaces as
// AlreadyExistsError.
func (s *Service) Create(ctx context.Context, name string, req NewProcessRequest) (*ProcessResponse, error) {
	now := s.now()
	if err := s.validateCreate(name, req, now); err != nil {
		return nil, err
	}

	p := &process.Process{
		Name:      name,
		ProcessID: req.ID,
		Status:    process.StatusActive,
		StartedAt: now,
		Tags:      req.Tags,
		Context:   req.Context,
	}
	if req.Deadline != nil {
		d := time.Unix(*req.Deadline, 0).UTC()
		p.Deadline = &d
	}

	if err := s.store.Save(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicateActive) {
			s.logger.Debug("active process already exists", "name", name, "id", req.ID)
			return nil, &AlreadyExistsError{Name: name, ProcessID: req.ID}
		}
		return nil, err
	}

	s.logger.Info("created process", "name", name, "id", req.ID, "internal_id", p.ID)
	metrics.IncCreated(name)
	s.sendEvent(ctx, history.EventCreated, p, now)

	return toResponse(p, now), nil
}

// Get returns the most recently started process with the pair.
func (s *Service) Get(ctx context.Context, name, id string) (*ProcessResponse, error) {
	if err := process.ValidateName(name); err != nil {
		return nil, err
	}
	if err := process.ValidateProcessID(id); err != nil {
		return nil, err
	}
	p, err := s.store.FindByNameAndID(ctx, name, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Name: name, ProcessID: id}
		}
		return nil, err
	}
	return toResponse(p, s.now()), nil
}

// Complete transitions an ACTIVE process to COMPLETED or FAILED. The
// transition is one-shot: a terminal process returns
// AlreadyCompletedError on any further attempt.
func (s *Service) Complete(ctx context.Context, name, id string, target process.Status) (*ProcessResponse, error) {
	if err := process.ValidateName(name); err != nil {
		return nil, err
	}
	if err := process.ValidateProcessID(id); err != nil {
		return nil, err
	}
	if !target.Valid() || !target.Terminal() {
		return nil, &process.ValidationError{Field: "status", Reason: "completion status must be COMPLETED or FAILED"}
	}

	p, err := s.store.FindByNameAndID(ctx, name, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Name: name, ProcessID: id}
		}
		return nil, err
	}
	if p.Status != process.StatusActive {
		return nil, &AlreadyCompletedError{Name: name, ProcessID: id}
	}

	now := s.now()
	p.Status = target
	p.CompletedAt = &now
	// The store applies the transition only while the row is still
	// ACTIVE, so a racing completer loses here, not after the fact.
	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotActive) {
			return nil, &AlreadyCompletedError{Name: name, ProcessID: id}
		}
		return nil, err
	}

	duration := process.DurationAt(p, now)
	s.logger.Info("completed process", "name", name, "id", id, "status", target, "duration_sec", duration)
	metrics.IncCompleted(name, string(target))
	metrics.ObserveDuration(name, string(target), float64(duration))
	s.sendEvent(ctx, history.EventCompleted, p, now)

	return toResponse(p, now), nil
}

// List fetches candidates using the store-pushdown-safe predicates, then
// runs the in-memory pipeline: derived-field filters, total, sort, page.
func (s *Service) List(ctx context.Context, f *query.Filter, pg query.Pageable) (query.PagedResult[*ProcessResponse], error) {
	var zero query.PagedResult[*ProcessResponse]
	if f == nil {
		f = &query.Filter{}
	}

	candidates, err := s.store.FindByFilters(ctx, store.Query{Name: f.Name, ID: f.ID, Status: f.Status})
	if err != nil {
		return zero, err
	}

	now := s.now()
	page, total := query.Apply(candidates, f, pg, now)

	responses := make([]*ProcessResponse, 0, len(page))
	for _, p := range page {
		responses = append(responses, toResponse(p, now))
	}
	return query.NewPagedResult(responses, total, pg), nil
}

// CountActive reports the current number of ACTIVE processes. The
// readiness probe and gauge refresh read through this.
func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.store.CountByStatus(ctx, process.StatusActive)
}

func (s *Service) validateCreate(name string, req NewProcessRequest, now time.Time) error {
	if err := process.ValidateName(name); err != nil {
		return err
	}
	if err := process.ValidateProcessID(req.ID); err != nil {
		return err
	}
	if req.Deadline != nil {
		if err := process.ValidateDeadline(*req.Deadline, now); err != nil {
			return err
		}
	}
	return process.ValidateTags(req.Tags)
}

func (s *Service) sendEvent(ctx context.Context, typ history.EventType, p *process.Process, now time.Time) {
	if s.sink == nil {
		return
	}
	e := history.Event{
		Type:        typ,
		OccurredAt:  now,
		Name:        p.Name,
		ProcessID:   p.ProcessID,
		Status:      string(p.Status),
		StartedAt:   p.StartedAt,
		DurationSec: process.DurationAt(p, now),
	}
	if p.CompletedAt != nil {
		e.CompletedAt = *p.CompletedAt
	}
	if err := s.sink.Send(ctx, e); err != nil {
		s.logger.Warn("history sink send failed", "type", typ, "name", p.Name, "id", p.ProcessID, "error", err)
	}
}
