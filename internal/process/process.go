package process

import "time"

// Status is the lifecycle state of a tracked process.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state. Terminal processes
// never transition again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DeadlineStatus is derived from a process snapshot and the current time.
// It is never stored.
type DeadlineStatus string

const (
	DeadlineOnTrack         DeadlineStatus = "ON_TRACK"
	DeadlineMissed          DeadlineStatus = "MISSED"
	DeadlineCompletedOnTime DeadlineStatus = "COMPLETED_ON_TIME"
	DeadlineCompletedLate   DeadlineStatus = "COMPLETED_LATE"
)

// Valid reports whether d is a known deadline status value.
func (d DeadlineStatus) Valid() bool {
	switch d {
	case DeadlineOnTrack, DeadlineMissed, DeadlineCompletedOnTime, DeadlineCompletedLate:
		return true
	}
	return false
}

// Tag is a key/value pair attached to a process. Order is preserved.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Process is the tracked entity. ID is store-assigned and never exposed
// to clients; ProcessID is the caller-supplied identifier, unique among
// ACTIVE processes of the same Name.
type Process struct {
	ID          int64
	Name        string
	ProcessID   string
	Status      Status
	StartedAt   time.Time
	CompletedAt *time.Time
	Deadline    *time.Time
	Tags        []Tag
	Context     map[string]any
}

// HasTag reports whether the process carries the exact key/value pair.
func (p *Process) HasTag(key, value string) bool {
	for _, t := range p.Tags {
		if t.Key == key && t.Value == value {
			return true
		}
	}
	return false
}
