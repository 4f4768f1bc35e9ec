package history

import (
	"context"
	"time"
)

// EventType defines the kind of lifecycle event.
type EventType string

const (
	EventCreated   EventType = "created"
	EventCompleted EventType = "completed"
)

// Event represents a lifecycle event to be exported to external systems
// (analytics/statistics). Timestamps are UTC.
type Event struct {
	Type        EventType `json:"type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Name        string    `json:"name"`
	ProcessID   string    `json:"process_id"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	DurationSec int64     `json:"duration_sec"`
}

// Sink is a destination for history events. Implementations must be safe
// for concurrent use. Delivery is best effort; the lifecycle service logs
// and continues on error.
type Sink interface {
	Send(ctx context.Context, e Event) error
}
