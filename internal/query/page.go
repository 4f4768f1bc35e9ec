package query

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pageable carries clamped pagination bounds. Out-of-range input is
// clamped silently rather than rejected.
type Pageable struct {
	limit  int
	offset int
}

// NewPageable clamps limit to [1,MaxLimit] (zero means DefaultLimit) and
// offset to >= 0.
func NewPageable(limit, offset int) Pageable {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Pageable{limit: limit, offset: offset}
}

func (p Pageable) Limit() int  { return p.limit }
func (p Pageable) Offset() int { return p.offset }

// PagedResult is the generic page envelope returned by listings.
type PagedResult[T any] struct {
	Data    []T   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewPagedResult computes has_more from the returned slice and total.
func NewPagedResult[T any](data []T, total int64, pg Pageable) PagedResult[T] {
	return PagedResult[T]{
		Data:    data,
		Total:   total,
		Limit:   pg.limit,
		Offset:  pg.offset,
		HasMore: int64(pg.offset+len(data)) < total,
	}
}
