package client

// Tag is a key/value pair attached to a process.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewProcessRequest registers a new process run.
type NewProcessRequest struct {
	ID       string         `json:"id"`
	Deadline *int64         `json:"deadline,omitempty"`
	Tags     []Tag          `json:"tags,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// Process is the API representation of a tracked process.
type Process struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Status         string         `json:"status"`
	DeadlineStatus string         `json:"deadline_status,omitempty"`
	StartedAt      int64          `json:"started_at"`
	CompletedAt    *int64         `json:"completed_at,omitempty"`
	Deadline       *int64         `json:"deadline,omitempty"`
	Tags           []Tag          `json:"tags"`
	Context        map[string]any `json:"context"`
	Duration       int64          `json:"duration"`
}

// ListOptions selects and orders processes for List. Zero values are
// omitted from the query string.
type ListOptions struct {
	Name               string
	ID                 string
	Status             string
	DeadlineStatus     string
	DeadlineBefore     *int64
	DeadlineAfter      *int64
	RunningDurationMin *int64
	TagKey             string
	TagValue           string
	SortBy             string // e.g. "deadline:asc"
	Limit              int
	Offset             int
}

// ProcessPage is one page of list results.
type ProcessPage struct {
	Data    []Process `json:"data"`
	Total   int64     `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasMore bool      `json:"has_more"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
