// Package paging implements the list query parameters shared by every
// collection endpoint: skip/take paging, whitelisted sorting and a free
// text filter.
package paging

import "github.com/uptrace/bun"

const (
	// TakeDefault is the page size when the client sends none.
	TakeDefault = 20
	// TakeMax caps the page size regardless of what the client asks for.
	TakeMax = 100
)

// ListQuery carries the common list parameters.
type ListQuery struct {
	Skip int
	Take int
	Sort string
	Desc bool
	Q    string
}

// Normalize clamps paging values into their allowed ranges.
func (q ListQuery) Normalize() ListQuery {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Take <= 0 {
		q.Take = TakeDefault
	}
	if q.Take > TakeMax {
		q.Take = TakeMax
	}
	return q
}

// Order applies the sort column when it is in the caller's whitelist,
// falling back to the given default. Column names never come from the
// client unchecked.
func (q ListQuery) Order(sel *bun.SelectQuery, allowed map[string]string, def string) *bun.SelectQuery {
	col := def
	if mapped, ok := allowed[q.Sort]; ok {
		col = mapped
	}
	dir := " ASC"
	if q.Desc {
		dir = " DESC"
	}
	return sel.Order(col + dir)
}

// Page applies skip/take after normalization.
func (q ListQuery) Page(sel *bun.SelectQuery) *bun.SelectQuery {
	n := q.Normalize()
	return sel.Offset(n.Skip).Limit(n.Take)
}
