package dto

import "strings"

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// ListQuery carries the pagination, search and sort parameters shared by all
// list endpoints. SortBy is only a request: repositories map it through an
// allow-list and fall back to their default ordering.
type ListQuery struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=15"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// Normalize clamps page and limit and lowercases the sort order.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	q.SortOrder = strings.ToLower(q.SortOrder)
}

func (q ListQuery) Offset() int { return (q.Page - 1) * q.Limit }

type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

// ListResponse is the envelope returned by every paginated endpoint.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewListResponse[T any](data []T, total int64, q ListQuery) *ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return &ListResponse[T]{
		Data:       data,
		Pagination: Pagination{TotalItems: total, TotalPages: pages, CurrentPage: q.Page},
	}
}
