package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// DefaultPageLimit is used when the client does not send ?limit=.
const DefaultPageLimit = 6

// MaxPageLimit caps ?limit= to prevent runaway queries.
const MaxPageLimit = 100

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to sane defaults (page=1, limit=DefaultPageLimit).
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > MaxPageLimit {
			p.Limit = MaxPageLimit
		}
	}
	return p
}

// InRange reports whether Offset and the next-page arithmetic fit in an int.
func (p PaginationParams) InRange() bool {
	return p.Limit >= 1 && p.Page <= math.MaxInt/p.Limit
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one slice of an ordered result set plus the total row count.
type Page[T any] struct {
	Items  []T
	Total  int64
	Params PaginationParams
}

// NewPage wraps items, replacing a nil slice with an empty one so JSON
// encodes [] rather than null.
func NewPage[T any](items []T, total int64, p PaginationParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Params: p}
}

// Next returns the following page number, or nil on the last page.
func (pg Page[T]) Next() *int {
	if int64(pg.Params.Page*pg.Params.Limit) >= pg.Total {
		return nil
	}
	n := pg.Params.Page + 1
	return &n
}

// Previous returns the preceding page number, or nil on the first page.
func (pg Page[T]) Previous() *int {
	if pg.Params.Page <= 1 {
		return nil
	}
	n := pg.Params.Page - 1
	return &n
}
