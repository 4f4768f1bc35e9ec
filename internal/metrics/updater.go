package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/store"
)

const DefaultUpdateInterval = 30 * time.Second

// Updater periodically refreshes gauge metrics that cannot be maintained
// incrementally, such as the ACTIVE process count. It reads through the
// normal store read path and never mutates state; a missed or late tick
// only delays gauge freshness.
type Updater struct {
	store    store.Store
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewUpdater(st store.Store, interval time.Duration, logger *slog.Logger) *Updater {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{store: st, interval: interval, logger: logger}
}

// Start launches the refresh loop. Stop terminates it.
func (u *Updater) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.done = make(chan struct{})
	go u.loop(ctx)
}

func (u *Updater) Stop() {
	if u.cancel != nil {
		u.cancel()
		<-u.done
	}
}

func (u *Updater) loop(ctx context.Context) {
	defer close(u.done)
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	u.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.refresh(ctx)
		}
	}
}

func (u *Updater) refresh(ctx context.Context) {
	n, err := u.store.CountByStatus(ctx, process.StatusActive)
	if err != nil {
		u.logger.Warn("failed to refresh active process gauge", "error", err)
		return
	}
	SetActive(n)
}
