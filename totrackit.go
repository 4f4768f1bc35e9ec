package totrackit

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	cfg "github.com/totrackit/totrackit/internal/config"
	"github.com/totrackit/totrackit/internal/history"
	hsfactory "github.com/totrackit/totrackit/internal/history/factory"
	"github.com/totrackit/totrackit/internal/metrics"
	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/query"
	iapi "github.com/totrackit/totrackit/internal/server"
	"github.com/totrackit/totrackit/internal/service"
	"github.com/totrackit/totrackit/internal/store"
	sfactory "github.com/totrackit/totrackit/internal/store/factory"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Status = process.Status

type DeadlineStatus = process.DeadlineStatus

type Tag = process.Tag

type NewProcessRequest = service.NewProcessRequest

type ProcessResponse = service.ProcessResponse

type Filter = query.Filter

type Pageable = query.Pageable

type Store = store.Store

type StoreConfig = store.Config

type HistorySink = history.Sink

const (
	StatusActive    = process.StatusActive
	StatusCompleted = process.StatusCompleted
	StatusFailed    = process.StatusFailed
)

// Tracker is a thin facade over internal/service.Service.
// It provides a stable public API for embedding.

type Tracker struct {
	inner *service.Service
	store store.Store
}

type Option = service.Option

var (
	WithClock       = service.WithClock
	WithLogger      = service.WithLogger
	WithHistorySink = service.WithHistorySink
)

// New builds a Tracker on the given store.
func New(st store.Store, opts ...Option) *Tracker {
	return &Tracker{inner: service.New(st, opts...), store: st}
}

// NewFromDSN opens a store from a DSN (memory://, sqlite://path,
// postgres://...) and builds a Tracker on it.
func NewFromDSN(dsn string, opts ...Option) (*Tracker, error) {
	st, err := sfactory.NewFromDSN(dsn)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(context.Background()); err != nil {
		_ = st.Close()
		return nil, err
	}
	return New(st, opts...), nil
}

func (t *Tracker) Create(ctx context.Context, name string, req NewProcessRequest) (*ProcessResponse, error) {
	return t.inner.Create(ctx, name, req)
}

func (t *Tracker) Get(ctx context.Context, name, id string) (*ProcessResponse, error) {
	return t.inner.Get(ctx, name, id)
}

func (t *Tracker) Complete(ctx context.Context, name, id string, status Status) (*ProcessResponse, error) {
	return t.inner.Complete(ctx, name, id, status)
}

func (t *Tracker) List(ctx context.Context, f *Filter, pg Pageable) (query.PagedResult[*ProcessResponse], error) {
	return t.inner.List(ctx, f, pg)
}

func (t *Tracker) CountActive(ctx context.Context) (int64, error) {
	return t.inner.CountActive(ctx)
}

// Close releases the underlying store.
func (t *Tracker) Close() error { return t.store.Close() }

// NewPageable clamps limit and offset to the supported window.
func NewPageable(limit, offset int) Pageable { return query.NewPageable(limit, offset) }

func LoadConfig(path string) (*cfg.Config, error) { return cfg.Load(path) }

// NewHistorySink opens a history sink from a DSN, e.g.
// clickhouse://localhost:9000?table=process_events.
func NewHistorySink(dsn string) (HistorySink, error) {
	return hsfactory.NewSinkFromDSN(dsn)
}

// NewHTTPServer starts an HTTP server exposing the tracking API for the
// given tracker.
func NewHTTPServer(addr, basePath string, t *Tracker) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, t.inner, t.store)
}

// NewHTTPHandler returns the API as an http.Handler for mounting into an
// existing server or mux.
func NewHTTPHandler(basePath string, t *Tracker) http.Handler {
	return iapi.NewRouter(t.inner, t.store, basePath).Handler()
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// MetricsHandler returns the prometheus exposition handler.
func MetricsHandler() http.Handler { return metrics.Handler() }
