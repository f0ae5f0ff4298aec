package course

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var sortColumns = map[string]bool{
	"created_at": true,
	"title":      true,
	"price":      true,
	"level":      true,
	"duration":   true,
}

// Page is a validated listing window.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage clamps caller-supplied limit and offset. A missing, unparsable
// or non-positive limit becomes DefaultLimit and anything above MaxLimit is
// capped; a missing, unparsable or negative offset becomes 0.
func ParsePage(limit, offset string) Page {
	p := Page{Limit: DefaultLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n >= 1 {
		p.Limit = min(n, MaxLimit)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(offset)); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

// Last is the inclusive index of the last row in the window.
func (p Page) Last() int {
	return p.Offset + p.Limit - 1
}

// Describe builds the pagination metadata for a window over total rows.
func (p Page) Describe(total int) Pagination {
	return Pagination{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Total:   total,
		HasMore: p.Offset+p.Limit < total,
	}
}

// SortColumn returns column when it is sortable, and created_at otherwise.
func SortColumn(column string) string {
	if sortColumns[column] {
		return column
	}
	return "created_at"
}
