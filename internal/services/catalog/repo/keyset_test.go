package repo

import (
	"strings"
	"testing"
	"time"

	"dap/internal/core/cursor"
	"dap/internal/core/paging"
)

func TestKeyset_ForwardComposite(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	w := &where{}
	w.and("deleted_at is null")
	tail := keyset(w, paging.Query{After: &cursor.Position{ID: "abc", Ordering: &at}, Order: paging.Asc, Limit: 11})

	got := w.String() + tail
	want := ` where deleted_at is null and (created_at > $1 or (created_at = $1 and id::text collate "C" > $2))` +
		` order by created_at asc, id::text collate "C" asc limit $3`
	if got != want {
		t.Fatalf("sql\n got %s\nwant %s", got, want)
	}
	if len(w.args) != 3 || w.args[0] != at || w.args[1] != "abc" || w.args[2] != 11 {
		t.Fatalf("args = %v", w.args)
	}
}

func TestKeyset_BackwardIDOnly(t *testing.T) {
	t.Parallel()

	w := &where{}
	tail := keyset(w, paging.Query{Before: &cursor.Position{ID: "zzz"}, Order: paging.Desc, Limit: 3})
	got := w.String() + tail
	if !strings.Contains(got, `id::text collate "C" < $1`) || !strings.Contains(got, "desc limit $2") {
		t.Fatalf("sql = %s", got)
	}
	if strings.Contains(got, "created_at <") {
		t.Fatalf("id only cursor must not filter on created_at: %s", got)
	}
}

func TestKeyset_NoCursor(t *testing.T) {
	t.Parallel()

	w := &where{}
	tail := keyset(w, paging.Query{Order: paging.Asc, Limit: 26})
	if w.String() != "" || !strings.HasSuffix(tail, "limit $1") || w.args[0] != 26 {
		t.Fatalf("where=%q tail=%q args=%v", w.String(), tail, w.args)
	}
}

func TestPatch_Assignments(t *testing.T) {
	t.Parallel()

	var p Patch
	if !p.Empty() {
		t.Fatal("zero patch should be empty")
	}
	p.Set("name", "x").Set("description", nil)
	w := &where{}
	set, err := p.assignments(w, namedPatchable)
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if set != "name = $1, description = $2, updated_at = now()" || len(w.args) != 2 {
		t.Fatalf("set = %q args=%v", set, w.args)
	}
	if !p.Has("name") || p.Has("notes") {
		t.Fatal("Has mismatch")
	}

	u := Patch{Undelete: true}
	if u.Empty() {
		t.Fatal("undelete alone is a change")
	}
	set, _ = u.assignments(&where{}, namedPatchable)
	if set != "deleted_at = null, updated_at = now()" {
		t.Fatalf("undelete set = %q", set)
	}

	var bad Patch
	bad.Set("weight", 1.0)
	if _, err := bad.assignments(&where{}, namedPatchable); err == nil {
		t.Fatal("task column on a named table should be rejected")
	}
}

func TestTable_Guards(t *testing.T) {
	t.Parallel()

	if err := mustTable("users; drop table products"); err == nil {
		t.Fatal("unknown table should be rejected")
	}
	if mustTable(Products) != nil || mustTable(Solutions) != nil {
		t.Fatal("catalog tables should pass")
	}
	if singular(Solutions) != "solution" || singular(Products) != "product" {
		t.Fatal("singular names")
	}
}
