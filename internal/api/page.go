package api

import (
	"net/url"
	"strconv"
)

// Page is the server-paginated collection shape returned by listing
// endpoints. Invariant (server-side): 0 <= CurrentPage < TotalPages
// whenever TotalPages > 0.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	CurrentPage   int `json:"currentPage"`
}

// ListQuery carries the pagination and sort parameters the server accepts.
// The client forwards them verbatim; it does not define its own cursor
// protocol.
type ListQuery struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("sortBy", q.SortBy)
	v.Set("sortDirection", q.SortDirection)
	return v
}
