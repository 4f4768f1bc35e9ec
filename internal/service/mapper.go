package service

import (
	"time"

	"github.com/totrackit/totrackit/internal/process"
)

// toResponse converts a process snapshot into the client-facing shape,
// deriving deadline_status and duration as of now.
func toResponse(p *process.Process, now time.Time) *ProcessResponse {
	resp := &ProcessResponse{
		ID:        p.ProcessID,
		Name:      p.Name,
		Status:    p.Status,
		StartedAt: p.StartedAt.Unix(),
		Duration:  process.DurationAt(p, now),
		Tags:      p.Tags,
		Context:   p.Context,
	}
	if resp.Tags == nil {
		resp.Tags = []process.Tag{}
	}
	if resp.Context == nil {
		resp.Context = map[string]any{}
	}
	if ds, ok := process.DeadlineStatusAt(p, now); ok {
		resp.DeadlineStatus = &ds
	}
	if p.CompletedAt != nil {
		v := p.CompletedAt.Unix()
		resp.CompletedAt = &v
	}
	if p.Deadline != nil {
		v := p.Deadline.Unix()
		resp.Deadline = &v
	}
	return resp
}
