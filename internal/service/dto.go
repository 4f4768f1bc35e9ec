package service

import "github.com/totrackit/totrackit/internal/process"

// NewProcessRequest is the payload for registering a process start.
// Deadline is epoch seconds.
type NewProcessRequest struct {
	ID       string         `json:"id"`
	Deadline *int64         `json:"deadline,omitempty"`
	Tags     []process.Tag  `json:"tags,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// CompleteProcessRequest is the optional payload for completing a
// process. Status defaults to COMPLETED when the body is omitted.
type CompleteProcessRequest struct {
	Status process.Status `json:"status"`
}

// ProcessResponse is the client-facing view of a process. All timestamps
// are epoch seconds; deadline_status and duration are derived fresh at
// read time and never stored.
type ProcessResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Status         process.Status          `json:"status"`
	DeadlineStatus *process.DeadlineStatus `json:"deadline_status,omitempty"`
	StartedAt      int64                   `json:"started_at"`
	CompletedAt    *int64                  `json:"completed_at,omitempty"`
	Deadline       *int64                  `json:"deadline,omitempty"`
	Tags           []process.Tag           `json:"tags"`
	Context        map[string]any          `json:"context"`
	Duration       int64                   `json:"duration"`
}
