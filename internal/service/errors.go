package service

import "fmt"

// AlreadyExistsError reports a create for a (name, id) pair that already
// has an ACTIVE process. The caller must pick a new id or wait for the
// running process to complete.
type AlreadyExistsError struct {
	Name      string
	ProcessID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("active process already exists: name=%q id=%q", e.Name, e.ProcessID)
}

// NotFoundError reports a lookup for a (name, id) pair with no rows.
type NotFoundError struct {
	Name      string
	ProcessID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("process not found: name=%q id=%q", e.Name, e.ProcessID)
}

// AlreadyCompletedError reports a completion attempt on a process that is
// already terminal. The transition out of ACTIVE is one-shot.
type AlreadyCompletedError struct {
	Name      string
	ProcessID string
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("process already completed: name=%q id=%q", e.Name, e.ProcessID)
}
