package pagination

import "strings"

const (
	// DefaultLimit is the standard page size when a size is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Params holds zero-based page pagination inputs from controllers or services.
type Params struct {
	Page    int
	Size    int
	SortBy  string
	SortDir SortDirection
}

// Page is a slice of results plus the totals needed to render pagers.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ParseSortDirection maps user input to a direction, defaulting to desc.
func ParseSortDirection(value string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(value), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// Normalize clamps page and size and defaults the sort direction.
func (p Params) Normalize() Params {
	if p.Page < 0 {
		p.Page = 0
	}
	p.Size = NormalizeLimit(p.Size)
	if p.SortDir != SortAsc {
		p.SortDir = SortDesc
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.Page * n.Size
}

// OrderClause builds an ORDER BY fragment, falling back to fallback when the
// requested column is not in allowed. allowed maps API field names to columns.
func (p Params) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[strings.TrimSpace(p.SortBy)]
	if !ok {
		column = fallback
	}
	return column + " " + string(p.Normalize().SortDir)
}

// NewPage assembles a Page from one page of rows and the overall row count.
func NewPage[T any](content []T, params Params, total int64) Page[T] {
	n := params.Normalize()
	if content == nil {
		content = []T{}
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(n.Size) - 1) / int64(n.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          n.Page,
		Size:          n.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// Map converts the page content while preserving the counters.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(page.Content))
	for _, item := range page.Content {
		out = append(out, fn(item))
	}
	return Page[U]{
		Content:       out,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}
