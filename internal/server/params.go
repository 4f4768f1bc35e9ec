package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/query"
)

var sortFields = map[string]bool{
	"started_at":   true,
	"completed_at": true,
	"deadline":     true,
	"name":         true,
	"status":       true,
	"duration":     true,
}

// parseListParams turns the list query string into a filter and page. Enum
// values are checked here so bad input reports 400 instead of silently
// matching nothing.
func parseListParams(c *gin.Context) (*query.Filter, query.Pageable, error) {
	f := &query.Filter{
		Name: c.Query("name"),
		ID:   c.Query("id"),
	}

	if s := c.Query("status"); s != "" {
		st := process.Status(s)
		if !st.Valid() {
			return nil, query.Pageable{}, fmt.Errorf("invalid status: %q", s)
		}
		f.Status = st
	}
	if s := c.Query("deadline_status"); s != "" {
		ds := process.DeadlineStatus(s)
		if !ds.Valid() {
			return nil, query.Pageable{}, fmt.Errorf("invalid deadline_status: %q", s)
		}
		f.DeadlineStatus = ds
	}

	var err error
	if f.DeadlineBefore, err = int64Param(c, "deadline_before"); err != nil {
		return nil, query.Pageable{}, err
	}
	if f.DeadlineAfter, err = int64Param(c, "deadline_after"); err != nil {
		return nil, query.Pageable{}, err
	}
	if f.RunningDurationMin, err = int64Param(c, "running_duration_min"); err != nil {
		return nil, query.Pageable{}, err
	}

	// tags=key:value; only the first pair is honored.
	if s := c.Query("tags"); s != "" {
		first := strings.Split(s, ",")[0]
		key, value, found := strings.Cut(first, ":")
		if !found || key == "" {
			return nil, query.Pageable{}, fmt.Errorf("invalid tags: %q, want key:value", s)
		}
		f.TagKey, f.TagValue = key, value
	}

	// sort_by=field:dir; only the first entry is honored, dir defaults to desc.
	if s := c.Query("sort_by"); s != "" {
		first := strings.Split(s, ",")[0]
		field, dir, found := strings.Cut(first, ":")
		if !sortFields[field] {
			return nil, query.Pageable{}, fmt.Errorf("invalid sort field: %q", field)
		}
		if found && dir != "asc" && dir != "desc" {
			return nil, query.Pageable{}, fmt.Errorf("invalid sort direction: %q", dir)
		}
		f.SortBy = field
		f.SortDirection = dir
	}

	limit, err := intParam(c, "limit", 20)
	if err != nil {
		return nil, query.Pageable{}, err
	}
	offset, err := intParam(c, "offset", 0)
	if err != nil {
		return nil, query.Pageable{}, err
	}
	return f, query.NewPageable(limit, offset), nil
}

func int64Param(c *gin.Context, name string) (*int64, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, s)
	}
	return &v, nil
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	s := c.Query(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return v, nil
}
