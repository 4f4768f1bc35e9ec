package query

import (
	"time"

	"github.com/totrackit/totrackit/internal/process"
)

// Filter holds the list criteria. All fields are optional and are ANDed
// together. Name and ID are exact matches and are pushed down to the store;
// the remaining criteria depend on derived fields and are applied in memory
// after candidates are materialized.
type Filter struct {
	Name               string
	ID                 string
	Status             process.Status
	DeadlineStatus     process.DeadlineStatus
	DeadlineBefore     *int64 // exclusive, epoch seconds
	DeadlineAfter      *int64 // exclusive, epoch seconds
	RunningDurationMin *int64 // seconds; only constrains ACTIVE processes
	TagKey             string
	TagValue           string

	SortBy        string
	SortDirection string
}

// Matches applies the in-memory (derived-field) criteria to p at now.
// Store-pushdown criteria (Name, ID, Status) are assumed to have been
// applied already; they are re-checked here so the engine also works over
// unfiltered candidate sets.
func (f *Filter) Matches(p *process.Process, now time.Time) bool {
	if f.Name != "" && p.Name != f.Name {
		return false
	}
	if f.ID != "" && p.ProcessID != f.ID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.DeadlineStatus != "" {
		ds, ok := process.DeadlineStatusAt(p, now)
		if !ok || ds != f.DeadlineStatus {
			return false
		}
	}
	if !f.matchesDeadlineRange(p) {
		return false
	}
	if !f.matchesRunningDuration(p, now) {
		return false
	}
	if f.TagKey != "" && !p.HasTag(f.TagKey, f.TagValue) {
		return false
	}
	return true
}

// matchesDeadlineRange applies the exclusive deadline bounds. A process
// without a deadline matches only when neither bound is set.
func (f *Filter) matchesDeadlineRange(p *process.Process) bool {
	if p.Deadline == nil {
		return f.DeadlineBefore == nil && f.DeadlineAfter == nil
	}
	d := p.Deadline.Unix()
	if f.DeadlineBefore != nil && d >= *f.DeadlineBefore {
		return false
	}
	if f.DeadlineAfter != nil && d <= *f.DeadlineAfter {
		return false
	}
	return true
}

// matchesRunningDuration constrains only ACTIVE processes; terminal ones
// pass regardless of the threshold.
func (f *Filter) matchesRunningDuration(p *process.Process, now time.Time) bool {
	if f.RunningDurationMin == nil || p.Status != process.StatusActive {
		return true
	}
	return process.DurationAt(p, now) >= *f.RunningDurationMin
}
