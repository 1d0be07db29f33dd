package paging

import (
	"context"
	"slices"

	"dap/internal/core/cursor"
	perr "dap/internal/platform/errors"
	"dap/internal/platform/logger"
)

// Order is the composite sort direction applied to (ordering value, id)
type Order uint8

const (
	// Asc sorts by ordering value then id, both ascending
	Asc Order = iota
	// Desc sorts by ordering value then id, both descending
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "desc"
	}
	return "asc"
}

// Args are the relay style pagination arguments
type Args struct {
	First  *int    `json:"first,omitempty"`
	After  *string `json:"after,omitempty"`
	Last   *int    `json:"last,omitempty"`
	Before *string `json:"before,omitempty"`
}

// Query is what the pager asks a Source for
// at most one of After and Before is set; rows must be strictly beyond it in Order
type Query struct {
	After  *cursor.Position
	Before *cursor.Position
	Order  Order
	Limit  int
}

// Source is an ordered record store with its base filter already applied
// Count must ignore any cursor narrowing
type Source[T Node] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context) (int, error)
}

// Options tune page sizes
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

const (
	defaultLimit = 25
	maxLimit     = 100
)

// Pager runs keyset pagination against any Source
type Pager struct {
	opt Options
	log logger.Logger
}

// New builds a Pager, zero options fall back to 25 per page and 100 max
func New(opt Options, log logger.Logger) *Pager {
	if opt.MaxLimit <= 0 {
		opt.MaxLimit = maxLimit
	}
	if opt.DefaultLimit <= 0 {
		opt.DefaultLimit = defaultLimit
	}
	if opt.DefaultLimit > opt.MaxLimit {
		opt.DefaultLimit = opt.MaxLimit
	}
	return &Pager{opt: opt, log: log}
}

// Validate checks args without touching a store
func Validate(a Args) error {
	if a.First != nil && a.Last != nil {
		return perr.InvalidArgf("cannot use first and last together")
	}
	if a.First != nil && *a.First <= 0 {
		return perr.WithField(perr.InvalidArgf("first must be > 0"), "first")
	}
	if a.Last != nil && *a.Last <= 0 {
		return perr.WithField(perr.InvalidArgf("last must be > 0"), "last")
	}
	return nil
}

// backward reports whether a is a last/before request
func backward(a Args) bool {
	return a.Last != nil || (a.First == nil && a.Before != nil)
}

func (p *Pager) limit(n *int) int {
	if n == nil {
		return p.opt.DefaultLimit
	}
	return min(*n, p.opt.MaxLimit)
}

// Page fetches one page from src
func Page[T Node](ctx context.Context, p *Pager, src Source[T], a Args) (Connection[T], error) {
	if err := Validate(a); err != nil {
		return Connection[T]{}, err
	}

	var (
		q                Query
		hasNext, hasPrev bool
	)
	back := backward(a)
	if back {
		q = Query{Before: decode(a.Before), Order: Desc, Limit: p.limit(a.Last)}
	} else {
		q = Query{After: decode(a.After), Order: Asc, Limit: p.limit(a.First)}
	}
	limit := q.Limit
	q.Limit = limit + 1

	rows, err := src.Find(ctx, q)
	if err != nil {
		return Connection[T]{}, err
	}
	fetched := len(rows)
	if fetched > limit {
		rows = rows[:limit]
	}
	if back {
		slices.Reverse(rows)
		hasPrev = fetched > limit
		hasNext = q.Before != nil
	} else {
		hasNext = fetched > limit
		hasPrev = q.After != nil
	}

	total, err := src.Count(ctx)
	if err != nil {
		return Connection[T]{}, err
	}

	p.log.Debug().
		Str("order", q.Order.String()).
		Int("limit", limit).
		Int("fetched", fetched).
		Int("total", total).
		Msg("keyset page")

	return Build(rows, total, hasNext, hasPrev), nil
}

func decode(tok *string) *cursor.Position {
	if tok == nil {
		return nil
	}
	return cursor.Decode(*tok)
}
