package process

import (
	"fmt"
	"regexp"
	"time"
)

const (
	MaxNameLen      = 100
	MaxProcessIDLen = 50
	MaxTags         = 20
	MaxTagKeyLen    = 50
	MaxTagValueLen  = 100

	// DeadlineSkewTolerance is how far in the past a deadline may be at
	// creation time before it is rejected, to absorb client clock skew.
	DeadlineSkewTolerance = 60 * time.Second
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidationError signals malformed caller input. It is never retried and
// maps to a bad-request at the HTTP boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateName checks the caller-supplied process name.
func ValidateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > MaxNameLen {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must not exceed %d characters", MaxNameLen)}
	}
	if !nameRe.MatchString(name) {
		return &ValidationError{Field: "name", Reason: "allowed characters are letters, digits, underscore and hyphen"}
	}
	return nil
}

// ValidateProcessID checks the caller-supplied process identifier.
func ValidateProcessID(id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if len(id) > MaxProcessIDLen {
		return &ValidationError{Field: "id", Reason: fmt.Sprintf("must not exceed %d characters", MaxProcessIDLen)}
	}
	return nil
}

// ValidateDeadline checks a deadline given as epoch seconds against now.
func ValidateDeadline(deadline int64, now time.Time) error {
	if deadline <= 0 {
		return &ValidationError{Field: "deadline", Reason: "must be a positive epoch timestamp"}
	}
	if deadline < now.Add(-DeadlineSkewTolerance).Unix() {
		return &ValidationError{Field: "deadline", Reason: "must not be in the past"}
	}
	return nil
}

// ValidateTags checks tag count and per-entry bounds.
func ValidateTags(tags []Tag) error {
	if len(tags) > MaxTags {
		return &ValidationError{Field: "tags", Reason: fmt.Sprintf("must not exceed %d entries", MaxTags)}
	}
	for _, t := range tags {
		if t.Key == "" {
			return &ValidationError{Field: "tags", Reason: "tag key must not be empty"}
		}
		if len(t.Key) > MaxTagKeyLen {
			return &ValidationError{Field: "tags", Reason: fmt.Sprintf("tag key must not exceed %d characters", MaxTagKeyLen)}
		}
		if t.Value == "" {
			return &ValidationError{Field: "tags", Reason: "tag value must not be empty"}
		}
		if len(t.Value) > MaxTagValueLen {
			return &ValidationError{Field: "tags", Reason: fmt.Sprintf("tag value must not exceed %d characters", MaxTagValueLen)}
		}
	}
	return nil
}
