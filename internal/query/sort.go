package query

import (
	"sort"
	"strings"
	"time"

	"github.com/totrackit/totrackit/internal/process"
)

// Sort fields accepted by the engine. Unknown fields fall back to started_at.
const (
	SortStartedAt   = "started_at"
	SortCompletedAt = "completed_at"
	SortDeadline    = "deadline"
	SortName        = "name"
	SortStatus      = "status"
	SortDuration    = "duration"
)

// Sort orders procs in place by a single field. Processes with an unset
// completed_at/deadline sort last regardless of direction.
func Sort(procs []*process.Process, sortBy, direction string, now time.Time) {
	asc := strings.EqualFold(direction, "asc")
	field := strings.ToLower(strings.TrimSpace(sortBy))

	sort.SliceStable(procs, func(i, j int) bool {
		a, b := procs[i], procs[j]
		var cmp int
		var nullA, nullB bool
		switch field {
		case SortCompletedAt:
			nullA, nullB = a.CompletedAt == nil, b.CompletedAt == nil
			if !nullA && !nullB {
				cmp = compareTime(*a.CompletedAt, *b.CompletedAt)
			}
		case SortDeadline:
			nullA, nullB = a.Deadline == nil, b.Deadline == nil
			if !nullA && !nullB {
				cmp = compareTime(*a.Deadline, *b.Deadline)
			}
		case SortName:
			cmp = strings.Compare(a.Name, b.Name)
		case SortStatus:
			cmp = strings.Compare(string(a.Status), string(b.Status))
		case SortDuration:
			cmp = compareInt64(process.DurationAt(a, now), process.DurationAt(b, now))
		default: // SortStartedAt and anything unrecognized
			cmp = compareTime(a.StartedAt, b.StartedAt)
		}
		// Null handling sits outside the direction flip so unset values
		// always land at the end.
		if nullA || nullB {
			return !nullA && nullB
		}
		if !asc {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
