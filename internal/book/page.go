package book

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSortKey is returned when the requested sort key does not
	// resolve to a known book column.
	ErrInvalidSortKey = errors.New("unknown sort key")
	// ErrInvalidSortDir is returned when the sort direction is neither
	// asc nor desc.
	ErrInvalidSortDir = errors.New("unknown sort direction")
)

// Defaults applied by the boundary when a paging parameter is supplied
// without a value.
const (
	DefaultPage   = 0
	DefaultSize   = 10
	DefaultSortBy = "id"
	SortAsc       = "asc"
	SortDesc      = "desc"
)

// PageQuery describes one requested slice of the book table: a 0-based
// page number, a page size > 0, and a sort key with direction.
type PageQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// Sort keys are wire-level names; they resolve to columns through this
// whitelist so the ORDER BY clause is never built from raw input.
var sortColumns = map[string]string{
	"id":            "id",
	"title":         "title",
	"author":        "author",
	"publishedYear": "published_year",
}

// OrderBy resolves the sort key and direction into an ORDER BY fragment.
// An unknown key or direction is a caller configuration error, not a
// silent fallback.
func (q PageQuery) OrderBy() (string, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, q.SortBy)
	}
	direction := "ASC"
	switch strings.ToLower(q.SortDir) {
	case "", SortAsc:
	case SortDesc:
		direction = "DESC"
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortDir, q.SortDir)
	}
	return column + " " + direction, nil
}

// Offset is the index of the first record on the requested page.
func (q PageQuery) Offset() int {
	return q.Page * q.Size
}

// Page is the pagination envelope: one slice of the result set plus the
// metadata describing its position in the whole.
type Page struct {
	Content       []Response `json:"content"`
	PageNumber    int        `json:"pageNumber"`
	PageSize      int        `json:"pageSize"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	HasNext       bool       `json:"hasNext"`
	HasPrevious   bool       `json:"hasPrevious"`
	First         bool       `json:"first"`
	Last          bool       `json:"last"`
}

// NewPage computes the envelope metadata for one slice. An empty table
// yields totalPages 0 (not 1) with first and last both true; an
// out-of-range page keeps the true totals and carries empty content.
func NewPage(content []Response, page, size int, total int64) Page {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	hasNext := page+1 < totalPages
	hasPrevious := page > 0
	if content == nil {
		content = []Response{}
	}
	return Page{
		Content:       content,
		PageNumber:    page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       hasNext,
		HasPrevious:   hasPrevious,
		First:         !hasPrevious,
		Last:          !hasNext,
	}
}
