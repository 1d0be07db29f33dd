package repo

import (
	"context"
	"testing"
	"time"

	"dap/internal/platform/store"
)

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.rows) }
func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	*dest[0].(*time.Time) = row[0].(time.Time)
	for k := 1; k <= 3; k++ {
		*dest[k].(*string) = row[k].(string)
	}
	*dest[4].(**string) = row[4].(*string)
	*dest[5].(*string) = row[5].(string)
	return nil
}
func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeCH struct {
	table string
	batch [][]any
	args  []any
	rows  *fakeRows
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.batch = table, rows
	return nil
}

func (f *fakeCH) Query(_ context.Context, _ string, args ...any) (store.Rows, error) {
	f.args = args
	return f.rows, nil
}
func (f *fakeCH) Close() error { return nil }

func TestCH_InsertColumnOrder(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	err := NewCH(f).Insert(context.Background(), RowEntry{CreatedAt: at, Action: "A", Entity: "E", EntityID: "1", Details: "{}"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if f.table != insertTarget || len(f.batch) != 1 || len(f.batch[0]) != 6 {
		t.Fatalf("unexpected batch table=%q rows=%v", f.table, f.batch)
	}
	if got := f.batch[0][0].(time.Time); got.Location() != time.UTC || !got.Equal(at) {
		t.Fatalf("created_at should be utc, got %v", got)
	}
}

func TestCH_Recent(t *testing.T) {
	t.Parallel()

	u := "u1"
	at := time.Unix(100, 0).UTC()
	f := &fakeCH{rows: &fakeRows{rows: [][]any{{at, "A", "Product", "p1", &u, `{"k":1}`}}}}
	got, err := NewCH(f).Recent(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != "p1" || *got[0].UserID != "u1" || f.args[0] != 7 {
		t.Fatalf("unexpected %+v args=%v", got, f.args)
	}
}
