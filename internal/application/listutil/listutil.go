package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// Page size tiers for the team videos listing.
const (
	DefaultPageSize  = 8
	ElevatedPageSize = 16
)

// PagingMode selects the page size tier.
type PagingMode int

const (
	// ModeDefault is the plain listing.
	ModeDefault PagingMode = iota
	// ModeFiltersOpen is the listing with the filter panel opened (filters=open).
	ModeFiltersOpen
)

// Query parameter names for paging.
const (
	ParamPage    = "page"
	ParamFilters = "filters"
)

// ParseMode reads the paging mode from URL query values.
// POST: ModeFiltersOpen iff filters=open
func ParseMode(q url.Values) PagingMode {
	if q.Get(ParamFilters) == "open" {
		return ModeFiltersOpen
	}
	return ModeDefault
}

// ParsePage extracts the 1-indexed page number.
// POST: returns >= 1
func ParsePage(q url.Values) int {
	page, _ := strconv.Atoi(q.Get(ParamPage))
	if page < 1 {
		page = 1
	}
	return page
}

// PageSize returns the number of rows per page.
// The elevated tier is selected by the filters-open mode, or by a role
// listed in elevatedRoles. With an empty elevatedRoles only the mode counts.
// POST: returns DefaultPageSize or ElevatedPageSize
func PageSize(role string, mode PagingMode, elevatedRoles []string) int {
	if mode == ModeFiltersOpen {
		return ElevatedPageSize
	}
	if role != "" && slices.Contains(elevatedRoles, role) {
		return ElevatedPageSize
	}
	return DefaultPageSize
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0, perPage > 0, page >= 1
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// PageNumbers returns the page numbers to display in pagination controls.
// Shows at most 5 pages centered around the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := max(p.Page-maxButtons/2, 1)
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if pagination controls should be displayed.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Slice returns the rows of items that fall on the page described by p.
// PRE: p was computed from len(items)
// INVARIANT: items is not copied; the result aliases it
func Slice[T any](items []T, p PageInfo) []T {
	start := min(p.Offset(), len(items))
	end := min(start+p.PerPage, len(items))
	return items[start:end]
}
