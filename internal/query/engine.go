package query

import (
	"time"

	"github.com/totrackit/totrackit/internal/process"
)

// Apply runs the list pipeline over a materialized candidate set:
// derived-field filtering, then total, then sort, then the page slice.
// The ordering is load-bearing: total must reflect the filtered set
// before any sorting or slicing happens.
func Apply(candidates []*process.Process, f *Filter, pg Pageable, now time.Time) ([]*process.Process, int64) {
	filtered := candidates[:0:0]
	for _, p := range candidates {
		if f.Matches(p, now) {
			filtered = append(filtered, p)
		}
	}

	total := int64(len(filtered))

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortStartedAt
	}
	direction := f.SortDirection
	if direction == "" {
		direction = "desc"
	}
	Sort(filtered, sortBy, direction, now)

	start := pg.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pg.Limit()
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total
}
