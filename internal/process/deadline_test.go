package process

import (
	"testing"
	"time"
)

func tp(t time.Time) *time.Time { return &t }

func TestDeadlineStatusActive(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0).UTC()
	p := &Process{Status: StatusActive, StartedAt: t0, Deadline: tp(t0.Add(time.Hour))}

	ds, ok := DeadlineStatusAt(p, t0.Add(30*time.Minute))
	if !ok || ds != DeadlineOnTrack {
		t.Fatalf("expected ON_TRACK, got %q ok=%v", ds, ok)
	}
	ds, ok = DeadlineStatusAt(p, t0.Add(3700*time.Second))
	if !ok || ds != DeadlineMissed {
		t.Fatalf("expected MISSED, got %q ok=%v", ds, ok)
	}
}

func TestDeadlineStatusCompleted(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0).UTC()
	p := &Process{Status: StatusCompleted, StartedAt: t0, Deadline: tp(t0.Add(time.Hour))}

	p.CompletedAt = tp(t0.Add(30 * time.Minute))
	ds, ok := DeadlineStatusAt(p, t0.Add(2*time.Hour))
	if !ok || ds != DeadlineCompletedOnTime {
		t.Fatalf("expected COMPLETED_ON_TIME, got %q ok=%v", ds, ok)
	}

	// Completion exactly at the deadline still counts as on time.
	p.CompletedAt = tp(t0.Add(time.Hour))
	ds, ok = DeadlineStatusAt(p, t0.Add(2*time.Hour))
	if !ok || ds != DeadlineCompletedOnTime {
		t.Fatalf("expected COMPLETED_ON_TIME at boundary, got %q ok=%v", ds, ok)
	}

	p.CompletedAt = tp(t0.Add(3700 * time.Second))
	ds, ok = DeadlineStatusAt(p, t0.Add(2*time.Hour))
	if !ok || ds != DeadlineCompletedLate {
		t.Fatalf("expected COMPLETED_LATE, got %q ok=%v", ds, ok)
	}
}

func TestDeadlineStatusAbsent(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0).UTC()

	// No deadline set.
	if _, ok := DeadlineStatusAt(&Process{Status: StatusActive, StartedAt: t0}, t0); ok {
		t.Fatalf("expected no deadline status without a deadline")
	}
	// FAILED carries no deadline verdict.
	p := &Process{Status: StatusFailed, StartedAt: t0, Deadline: tp(t0.Add(time.Hour)), CompletedAt: tp(t0.Add(time.Minute))}
	if _, ok := DeadlineStatusAt(p, t0.Add(2*time.Hour)); ok {
		t.Fatalf("expected no deadline status for FAILED")
	}
}

func TestDurationAt(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0).UTC()

	done := &Process{Status: StatusCompleted, StartedAt: t0, CompletedAt: tp(t0.Add(300 * time.Second))}
	if d := DurationAt(done, t0.Add(9999*time.Second)); d != 300 {
		t.Fatalf("completed duration = %d, want 300", d)
	}
	// A failed process measures the same window.
	done.Status = StatusFailed
	if d := DurationAt(done, t0.Add(9999*time.Second)); d != 300 {
		t.Fatalf("failed duration = %d, want 300", d)
	}
	active := &Process{Status: StatusActive, StartedAt: t0}
	if d := DurationAt(active, t0.Add(42*time.Second)); d != 42 {
		t.Fatalf("active duration = %d, want 42", d)
	}
}

func TestOverdue(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0).UTC()
	p := &Process{Status: StatusActive, StartedAt: t0, Deadline: tp(t0.Add(time.Hour))}
	if Overdue(p, t0.Add(time.Minute)) {
		t.Fatalf("not overdue yet")
	}
	if !Overdue(p, t0.Add(2*time.Hour)) {
		t.Fatalf("expected overdue")
	}
	p.Status = StatusCompleted
	if Overdue(p, t0.Add(2*time.Hour)) {
		t.Fatalf("terminal process is never overdue")
	}
}
