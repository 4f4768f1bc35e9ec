package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/totrackit/totrackit/internal/process"
)

var now = time.Unix(1_700_000_000, 0).UTC()

func tp(t time.Time) *time.Time { return &t }
func ip(v int64) *int64         { return &v }

func mkProc(name, id string, status process.Status, started time.Time) *process.Process {
	return &process.Process{Name: name, ProcessID: id, Status: status, StartedAt: started}
}

func sample() []*process.Process {
	// Five processes with a mix of statuses, deadlines and tags.
	a := mkProc("etl", "run-1", process.StatusActive, now.Add(-10*time.Minute))
	a.Deadline = tp(now.Add(time.Hour))
	a.Tags = []process.Tag{{Key: "env", Value: "prod"}}

	b := mkProc("etl", "run-2", process.StatusActive, now.Add(-2*time.Hour))
	b.Deadline = tp(now.Add(-time.Hour)) // missed

	c := mkProc("etl", "run-3", process.StatusCompleted, now.Add(-3*time.Hour))
	c.CompletedAt = tp(now.Add(-150 * time.Minute))
	c.Deadline = tp(now.Add(-2 * time.Hour)) // on time

	d := mkProc("report", "run-1", process.StatusFailed, now.Add(-4*time.Hour))
	d.CompletedAt = tp(now.Add(-210 * time.Minute))

	e := mkProc("report", "run-9", process.StatusCompleted, now.Add(-5*time.Hour))
	e.CompletedAt = tp(now.Add(-30 * time.Minute))
	e.Deadline = tp(now.Add(-time.Hour)) // late
	e.Tags = []process.Tag{{Key: "env", Value: "staging"}}

	return []*process.Process{a, b, c, d, e}
}

func TestFilterByNameAndStatus(t *testing.T) {
	f := &Filter{Name: "etl", Status: process.StatusActive}
	page, total := Apply(sample(), f, NewPageable(20, 0), now)
	if total != 2 || len(page) != 2 {
		t.Fatalf("total=%d len=%d, want 2/2", total, len(page))
	}
	for _, p := range page {
		if p.Name != "etl" || p.Status != process.StatusActive {
			t.Fatalf("stray row: %+v", p)
		}
	}
}

func TestFilterByDeadlineStatus(t *testing.T) {
	cases := map[process.DeadlineStatus]int64{
		process.DeadlineOnTrack:         1,
		process.DeadlineMissed:          1,
		process.DeadlineCompletedOnTime: 1,
		process.DeadlineCompletedLate:   1,
	}
	for ds, want := range cases {
		_, total := Apply(sample(), &Filter{DeadlineStatus: ds}, NewPageable(20, 0), now)
		if total != want {
			t.Fatalf("deadline_status=%s total=%d, want %d", ds, total, want)
		}
	}
}

func TestFilterDeadlineRange(t *testing.T) {
	// Exclusive bounds on the raw deadline.
	f := &Filter{DeadlineBefore: ip(now.Unix()), DeadlineAfter: ip(now.Add(-3 * time.Hour).Unix())}
	page, total := Apply(sample(), f, NewPageable(20, 0), now)
	if total != 3 {
		t.Fatalf("total=%d, want 3 (deadlines in (-3h, now))", total)
	}
	for _, p := range page {
		if p.Deadline == nil {
			t.Fatalf("process without deadline matched a bounded range")
		}
	}

	// No bounds: processes without a deadline match too.
	_, total = Apply(sample(), &Filter{}, NewPageable(20, 0), now)
	if total != 5 {
		t.Fatalf("unbounded total=%d, want 5", total)
	}
}

func TestFilterRunningDuration(t *testing.T) {
	// Only ACTIVE processes are constrained; terminal ones pass through.
	f := &Filter{RunningDurationMin: ip(3600)}
	_, total := Apply(sample(), f, NewPageable(20, 0), now)
	// b (active 2h) matches; a (active 10m) drops; c, d, e are terminal.
	if total != 4 {
		t.Fatalf("total=%d, want 4", total)
	}
}

func TestFilterByTag(t *testing.T) {
	f := &Filter{TagKey: "env", TagValue: "prod"}
	page, total := Apply(sample(), f, NewPageable(20, 0), now)
	if total != 1 || len(page) != 1 || page[0].ProcessID != "run-1" {
		t.Fatalf("tag filter: total=%d page=%v", total, page)
	}
	// Value is part of the match.
	_, total = Apply(sample(), &Filter{TagKey: "env", TagValue: "dev"}, NewPageable(20, 0), now)
	if total != 0 {
		t.Fatalf("tag mismatch matched %d rows", total)
	}
}

func TestSortDefaultsToStartedAtDesc(t *testing.T) {
	page, _ := Apply(sample(), &Filter{}, NewPageable(20, 0), now)
	for i := 1; i < len(page); i++ {
		if page[i].StartedAt.After(page[i-1].StartedAt) {
			t.Fatalf("not sorted started_at desc at %d", i)
		}
	}
}

func TestSortNullsLastBothDirections(t *testing.T) {
	for _, dir := range []string{"asc", "desc"} {
		f := &Filter{SortBy: SortDeadline, SortDirection: dir}
		page, _ := Apply(sample(), f, NewPageable(20, 0), now)
		if page[len(page)-1].Deadline != nil {
			t.Fatalf("dir=%s: process without deadline not last", dir)
		}
		for i := 0; i < len(page)-1; i++ {
			if page[i].Deadline == nil {
				t.Fatalf("dir=%s: null deadline before non-null at %d", dir, i)
			}
		}
	}
}

func TestSortByDuration(t *testing.T) {
	f := &Filter{SortBy: SortDuration, SortDirection: "asc"}
	page, _ := Apply(sample(), f, NewPageable(20, 0), now)
	for i := 1; i < len(page); i++ {
		if process.DurationAt(page[i], now) < process.DurationAt(page[i-1], now) {
			t.Fatalf("duration not ascending at %d", i)
		}
	}
}

func TestPaginationInvariant(t *testing.T) {
	procs := make([]*process.Process, 0, 7)
	for i := 0; i < 7; i++ {
		procs = append(procs, mkProc("p", fmt.Sprintf("r%d", i), process.StatusActive, now.Add(-time.Duration(i)*time.Minute)))
	}
	cases := []struct{ limit, offset, wantLen int }{
		{3, 0, 3},
		{3, 3, 3},
		{3, 6, 1},
		{3, 7, 0},
		{3, 50, 0},
		{100, 0, 7},
	}
	for _, c := range cases {
		pg := NewPageable(c.limit, c.offset)
		page, total := Apply(procs, &Filter{}, pg, now)
		if total != 7 {
			t.Fatalf("limit=%d offset=%d total=%d, want 7", c.limit, c.offset, total)
		}
		if len(page) != c.wantLen {
			t.Fatalf("limit=%d offset=%d len=%d, want %d", c.limit, c.offset, len(page), c.wantLen)
		}
		res := NewPagedResult(page, total, pg)
		wantMore := int64(pg.Offset()+len(page)) < total
		if res.HasMore != wantMore {
			t.Fatalf("limit=%d offset=%d has_more=%v, want %v", c.limit, c.offset, res.HasMore, wantMore)
		}
	}
}

func TestPageableClamping(t *testing.T) {
	if pg := NewPageable(0, 0); pg.Limit() != DefaultLimit {
		t.Fatalf("zero limit = %d, want default %d", pg.Limit(), DefaultLimit)
	}
	if pg := NewPageable(-5, -3); pg.Limit() != 1 || pg.Offset() != 0 {
		t.Fatalf("negative input not clamped: %d/%d", pg.Limit(), pg.Offset())
	}
	if pg := NewPageable(500, 0); pg.Limit() != MaxLimit {
		t.Fatalf("oversized limit = %d, want %d", pg.Limit(), MaxLimit)
	}
}

func TestTotalUnaffectedBySortAndPage(t *testing.T) {
	f := &Filter{Status: process.StatusCompleted, SortBy: SortDuration, SortDirection: "desc"}
	_, total1 := Apply(sample(), f, NewPageable(1, 0), now)
	f2 := &Filter{Status: process.StatusCompleted}
	_, total2 := Apply(sample(), f2, NewPageable(100, 4), now)
	if total1 != total2 {
		t.Fatalf("total changed with sort/pagination: %d vs %d", total1, total2)
	}
}
