package repo

import (
	"fmt"
	"strings"

	"dap/internal/core/paging"
)

// where accumulates a filter and its positional args
type where struct {
	conds []string
	args  []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) and(cond string) { w.conds = append(w.conds, cond) }

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " where " + strings.Join(w.conds, " and ")
}

// keyset narrows w past the query cursor and returns the order and limit tail
// ids compare as C collated text so a malformed cursor id degrades instead of failing a uuid cast,
// canonical uuid text sorts like the uuid itself
func keyset(w *where, q paging.Query) string {
	cmp, dir := ">", "asc"
	if q.Order == paging.Desc {
		cmp, dir = "<", "desc"
	}
	pos := q.After
	if pos == nil {
		pos = q.Before
	}
	if pos != nil {
		if pos.Ordering != nil {
			ts, id := w.arg(*pos.Ordering), w.arg(pos.ID)
			w.and(fmt.Sprintf("(created_at %s %s or (created_at = %s and id::text collate \"C\" %s %s))", cmp, ts, ts, cmp, id))
		} else {
			w.and(fmt.Sprintf("id::text collate \"C\" %s %s", cmp, w.arg(pos.ID)))
		}
	}
	limit := w.arg(q.Limit)
	return fmt.Sprintf(" order by created_at %s, id::text collate \"C\" %s limit %s", dir, dir, limit)
}
