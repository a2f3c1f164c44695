// Package listview implements the per-page state machine behind every
// listing screen: server pagination, compound sort keys, a locally scoped
// search keyword and type filter, and the reload discipline around
// mutations. The controller is pure state; callers execute the
// LoadRequests it hands out and feed results back with the sequence number
// attached, so a stale slow response can never overwrite a newer one.
package listview

import (
	"strings"

	"lifedeck/internal/api"
	"lifedeck/internal/core"
)

// State is the controller lifecycle: Idle until the first load, then
// Loading -> {Loaded, Failed}, re-entering Loading on page, sort or range
// changes, retries, and successful mutations.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

// SortSpec is the server-side (sortBy, sortDirection) pair a compound UI
// sort key maps to.
type SortSpec struct {
	Field     string
	Direction string
}

// Config wires a controller for one item type. TypeOf is optional; leaving
// it nil disables the type filter.
type Config[T any] struct {
	PageSize    int
	Sorts       map[string]SortSpec
	DefaultSort string
	Matches     func(item T, keyword string) bool
	TypeOf      func(item T) string
}

// LoadRequest tells the caller to fetch one page. Seq must be echoed back
// into ApplyPage/ApplyError so stale responses are dropped.
type LoadRequest struct {
	Seq   int
	Query api.ListQuery
	Range core.DateRange
}

// Controller owns the List View State for one listing page.
type Controller[T any] struct {
	cfg Config[T]

	state         State
	items         []T
	filtered      []T
	keyword       string
	filterType    string
	sortKey       string
	page          int
	totalPages    int
	totalElements int
	dateRange     core.DateRange
	errMsg        string
	seq           int
}

// New builds a controller in the Idle state with the configured default
// sort applied.
func New[T any](cfg Config[T]) *Controller[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	return &Controller[T]{cfg: cfg, sortKey: cfg.DefaultSort}
}

// StartLoad enters Loading, clears any prior error, and returns the fetch
// to execute for the current page, sort and range.
func (c *Controller[T]) StartLoad() LoadRequest {
	c.state = Loading
	c.errMsg = ""
	c.seq++
	return c.request()
}

func (c *Controller[T]) request() LoadRequest {
	spec := c.cfg.Sorts[c.sortKey]
	return LoadRequest{
		Seq: c.seq,
		Query: api.ListQuery{
			Page:          c.page,
			Size:          c.cfg.PageSize,
			SortBy:        spec.Field,
			SortDirection: spec.Direction,
		},
		Range: c.dateRange,
	}
}

// ApplyPage merges a fetched page into the controller. Stale responses
// (seq mismatch) are dropped. When a reload shrank the dataset below the
// current page index the page is clamped to the last valid one and a
// follow-up fetch for the corrected page is returned with ok=true.
func (c *Controller[T]) ApplyPage(seq int, p api.Page[T]) (refetch LoadRequest, ok bool) {
	if seq != c.seq {
		return LoadRequest{}, false
	}

	c.totalPages = p.TotalPages
	c.totalElements = p.TotalElements

	if p.TotalPages > 0 && c.page >= p.TotalPages {
		c.page = p.TotalPages - 1
		return c.StartLoad(), true
	}
	if p.TotalPages == 0 {
		c.page = 0
	}

	c.items = p.Content
	c.state = Loaded
	c.refilter()
	return LoadRequest{}, false
}

// ApplyError records a load failure. Stale errors are dropped.
func (c *Controller[T]) ApplyError(seq int, message string) {
	if seq != c.seq {
		return
	}
	c.state = Failed
	c.errMsg = message
}

// Retry re-issues the last load.
func (c *Controller[T]) Retry() LoadRequest {
	return c.StartLoad()
}

// SetSearchKeyword narrows the displayed items without touching the
// network. Search operates only within the loaded page; pagination is
// hidden while it is active because the filtered view no longer lines up
// with server page boundaries.
func (c *Controller[T]) SetSearchKeyword(keyword string) {
	c.keyword = keyword
	c.refilter()
}

// SetFilterType narrows the displayed items to one type, locally, with the
// same pagination caveat as search. Empty or "all" clears the filter.
func (c *Controller[T]) SetFilterType(filterType string) {
	if filterType == "all" {
		filterType = ""
	}
	c.filterType = filterType
	c.refilter()
}

// SetSortKey switches to a different compound sort key. A new sort
// invalidates the meaning of the old page index, so the page resets to 0
// and exactly one reload is issued. Unknown and unchanged keys are no-ops.
func (c *Controller[T]) SetSortKey(key string) (LoadRequest, bool) {
	if key == c.sortKey {
		return LoadRequest{}, false
	}
	if _, known := c.cfg.Sorts[key]; !known {
		return LoadRequest{}, false
	}
	c.sortKey = key
	c.page = 0
	return c.StartLoad(), true
}

// SetPage navigates to another page and issues a reload. Out-of-range and
// unchanged targets are no-ops.
func (c *Controller[T]) SetPage(page int) (LoadRequest, bool) {
	if page == c.page || page < 0 || (c.totalPages > 0 && page >= c.totalPages) {
		return LoadRequest{}, false
	}
	c.page = page
	return c.StartLoad(), true
}

// SetDateRange replaces the queried range, resets to page 0 and issues a
// reload. The caller refreshes the range summary alongside.
func (c *Controller[T]) SetDateRange(r core.DateRange) LoadRequest {
	c.dateRange = r
	c.page = 0
	return c.StartLoad()
}

// AfterMutation is called once a create, update or delete succeeded: back
// to page 0 and reload, which also re-clamps against the shrunken dataset.
func (c *Controller[T]) AfterMutation() LoadRequest {
	c.page = 0
	return c.StartLoad()
}

func (c *Controller[T]) refilter() {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.filterType != "" && c.cfg.TypeOf != nil && c.cfg.TypeOf(item) != c.filterType {
			continue
		}
		if c.cfg.Matches != nil && !c.cfg.Matches(item, c.keyword) {
			continue
		}
		out = append(out, item)
	}
	c.filtered = out
}

// Visible returns the filtered projection of the loaded page. It is
// recomputed on every filter change and never mutates the loaded items.
func (c *Controller[T]) Visible() []T { return c.filtered }

// Items returns the loaded page as the server sent it.
func (c *Controller[T]) Items() []T { return c.items }

// PaginationVisible reports whether the pagination bar corresponds to what
// is displayed: only when no local filter is active.
func (c *Controller[T]) PaginationVisible() bool {
	return !c.SearchActive() && c.filterType == ""
}

// SearchActive reports whether a non-blank keyword is narrowing the view.
func (c *Controller[T]) SearchActive() bool {
	return strings.TrimSpace(c.keyword) != ""
}

// Accessors for the rendering layer.

// Seq is the sequence number of the in-flight load request. A response
// carrying any other value is stale; callers holding data that rides
// alongside a page (like a range summary) compare against it before
// applying.
func (c *Controller[T]) Seq() int { return c.seq }

func (c *Controller[T]) State() State            { return c.state }
func (c *Controller[T]) Err() string             { return c.errMsg }
func (c *Controller[T]) Page() int               { return c.page }
func (c *Controller[T]) TotalPages() int         { return c.totalPages }
func (c *Controller[T]) TotalElements() int      { return c.totalElements }
func (c *Controller[T]) SortKey() string         { return c.sortKey }
func (c *Controller[T]) SearchKeyword() string   { return c.keyword }
func (c *Controller[T]) FilterType() string      { return c.filterType }
func (c *Controller[T]) DateRange() core.DateRange { return c.dateRange }
