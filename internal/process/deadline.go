package process

import "time"

// DeadlineStatusAt derives the deadline status of p as observed at now.
// The second return is false when no status applies: the process has no
// deadline, or it ended in a state that carries no deadline verdict
// (FAILED reports nothing, matching the tracked semantics).
func DeadlineStatusAt(p *Process, now time.Time) (DeadlineStatus, bool) {
	if p == nil || p.Deadline == nil {
		return "", false
	}
	switch p.Status {
	case StatusActive:
		if now.After(*p.Deadline) {
			return DeadlineMissed, true
		}
		return DeadlineOnTrack, true
	case StatusCompleted:
		if p.CompletedAt == nil {
			return "", false
		}
		if p.CompletedAt.After(*p.Deadline) {
			return DeadlineCompletedLate, true
		}
		return DeadlineCompletedOnTime, true
	}
	return "", false
}

// DurationAt returns the elapsed whole seconds of p as observed at now.
// Terminal processes measure started..completed; active ones started..now.
func DurationAt(p *Process, now time.Time) int64 {
	end := now
	if p.CompletedAt != nil {
		end = *p.CompletedAt
	}
	return end.Unix() - p.StartedAt.Unix()
}

// Overdue reports whether p is active and past its deadline at now.
func Overdue(p *Process, now time.Time) bool {
	return p != nil && p.Status == StatusActive && p.Deadline != nil && now.After(*p.Deadline)
}
