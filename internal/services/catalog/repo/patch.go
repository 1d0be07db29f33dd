package repo

import (
	"fmt"
	"strings"
)

// Patch is an ordered column assignment list for an update
type Patch struct {
	cols []string
	vals []any
	// Undelete clears deleted_at and lets the update reach soft deleted rows
	Undelete bool
}

// Set appends an assignment
func (p *Patch) Set(col string, v any) *Patch {
	p.cols = append(p.cols, col)
	p.vals = append(p.vals, v)
	return p
}

// Empty reports that nothing would change
func (p Patch) Empty() bool { return len(p.cols) == 0 && !p.Undelete }

// Len is the number of column assignments
func (p Patch) Len() int { return len(p.cols) }

// Has reports whether col is assigned
func (p Patch) Has(col string) bool {
	for _, c := range p.cols {
		if c == col {
			return true
		}
	}
	return false
}

// Value returns the value assigned to col
func (p Patch) Value(col string) (any, bool) {
	for i, c := range p.cols {
		if c == col {
			return p.vals[i], true
		}
	}
	return nil, false
}

// assignments renders "col = $n" pairs after checking cols against allowed
func (p Patch) assignments(w *where, allowed map[string]bool) (string, error) {
	parts := make([]string, 0, len(p.cols)+2)
	for i, c := range p.cols {
		if !allowed[c] {
			return "", fmt.Errorf("catalog: column %q is not patchable", c)
		}
		parts = append(parts, c+" = "+w.arg(p.vals[i]))
	}
	if p.Undelete {
		parts = append(parts, "deleted_at = null")
	}
	parts = append(parts, "updated_at = now()")
	return strings.Join(parts, ", "), nil
}
