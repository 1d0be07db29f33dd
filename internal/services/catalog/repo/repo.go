// Package repo provides postgres access for the catalog
package repo

import (
	"context"
	"fmt"
	"time"

	"dap/internal/core/paging"
	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	"dap/internal/platform/store"
)

// Table names a catalog table that shares the name and description shape
type Table string

const (
	// Products is the products table
	Products Table = "products"
	// Solutions is the solutions table
	Solutions Table = "solutions"
)

func (t Table) valid() bool { return t == Products || t == Solutions }

// Scope narrows tasks to a parent
type Scope struct {
	ProductID  *string
	SolutionID *string
}

// Repo defines the repository contract for the catalog
type Repo interface {
	FindNamed(ctx context.Context, t Table, q paging.Query) ([]RowNamed, error)
	CountNamed(ctx context.Context, t Table) (int, error)
	GetNamed(ctx context.Context, t Table, id string) (RowNamed, error)
	InsertNamed(ctx context.Context, t Table, name string, description *string) (RowNamed, error)
	UpdateNamed(ctx context.Context, t Table, id string, p Patch) (RowNamed, error)
	SoftDeleteNamed(ctx context.Context, t Table, id string) (RowNamed, error)

	FindTasks(ctx context.Context, s Scope, q paging.Query) ([]RowTask, error)
	CountTasks(ctx context.Context, s Scope) (int, error)
	GetTask(ctx context.Context, id string) (RowTask, error)
	InsertTask(ctx context.Context, t RowTask) (RowTask, error)
	UpdateTask(ctx context.Context, id string, p Patch) (RowTask, error)
	SoftDeleteTask(ctx context.Context, id string) (RowTask, error)
	NextSequence(ctx context.Context, s Scope) (int, error)
	WeightSum(ctx context.Context, s Scope, excludeID string) (float64, error)
}

// RowNamed is a products or solutions row
type RowNamed struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// RowTask is a tasks row
type RowTask struct {
	ID             string
	ProductID      *string
	SolutionID     *string
	Name           string
	Description    *string
	EstMinutes     int
	Weight         float64
	Notes          *string
	Priority       *string
	SequenceNumber int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

type (
	// PG implements Repo over postgres
	PG struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres repo
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const namedCols = `id::text, name, description, created_at, updated_at, deleted_at`

var namedPatchable = map[string]bool{"name": true, "description": true}

func scanNamed(row store.Row) (RowNamed, error) {
	var n RowNamed
	err := row.Scan(&n.ID, &n.Name, &n.Description, &n.CreatedAt, &n.UpdatedAt, &n.DeletedAt)
	return n, err
}

func mustTable(t Table) error {
	if !t.valid() {
		return fmt.Errorf("catalog: unknown table %q", t)
	}
	return nil
}

func (r *queries) FindNamed(ctx context.Context, t Table, q paging.Query) ([]RowNamed, error) {
	if err := mustTable(t); err != nil {
		return nil, err
	}
	w := &where{}
	w.and("deleted_at is null")
	tail := keyset(w, q)
	rows, err := store.Many(ctx, r.q, scanNamed, `select `+namedCols+` from `+string(t)+w.String()+tail, w.args...)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list %s", t)
	}
	return rows, nil
}

func (r *queries) CountNamed(ctx context.Context, t Table) (int, error) {
	if err := mustTable(t); err != nil {
		return 0, err
	}
	n, err := store.Scalar[int64](ctx, r.q, `select count(*) from `+string(t)+` where deleted_at is null`)
	if err != nil {
		return 0, perr.FromPostgresf(err, "count %s", t)
	}
	return int(n), nil
}

func (r *queries) GetNamed(ctx context.Context, t Table, id string) (RowNamed, error) {
	if err := mustTable(t); err != nil {
		return RowNamed{}, err
	}
	sql := `select ` + namedCols + ` from ` + string(t) + ` where id = $1 and deleted_at is null`
	return oneNamed(ctx, r.q, t, id, sql, id)
}

func (r *queries) InsertNamed(ctx context.Context, t Table, name string, description *string) (RowNamed, error) {
	if err := mustTable(t); err != nil {
		return RowNamed{}, err
	}
	sql := `insert into ` + string(t) + ` (name, description) values ($1, $2) returning ` + namedCols
	n, err := store.One(ctx, r.q, scanNamed, sql, name, description)
	if err != nil {
		return RowNamed{}, perr.FromPostgresWithField(err, "insert "+string(t))
	}
	return n, nil
}

func (r *queries) UpdateNamed(ctx context.Context, t Table, id string, p Patch) (RowNamed, error) {
	if err := mustTable(t); err != nil {
		return RowNamed{}, err
	}
	if p.Empty() {
		return r.GetNamed(ctx, t, id)
	}
	w := &where{}
	set, err := p.assignments(w, namedPatchable)
	if err != nil {
		return RowNamed{}, err
	}
	w.and("id = " + w.arg(id))
	if !p.Undelete {
		w.and("deleted_at is null")
	}
	sql := `update ` + string(t) + ` set ` + set + w.String() + ` returning ` + namedCols
	return oneNamed(ctx, r.q, t, id, sql, w.args...)
}

func (r *queries) SoftDeleteNamed(ctx context.Context, t Table, id string) (RowNamed, error) {
	if err := mustTable(t); err != nil {
		return RowNamed{}, err
	}
	sql := `update ` + string(t) + ` set deleted_at = now(), updated_at = now() where id = $1 and deleted_at is null returning ` + namedCols
	return oneNamed(ctx, r.q, t, id, sql, id)
}

func oneNamed(ctx context.Context, q repokit.Queryer, t Table, id, sql string, args ...any) (RowNamed, error) {
	n, err := store.One(ctx, q, scanNamed, sql, args...)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return RowNamed{}, perr.NotFoundf("%s %s not found", singular(t), id)
		}
		return RowNamed{}, perr.FromPostgresWithField(err, string(t))
	}
	return n, nil
}

func singular(t Table) string {
	if t == Solutions {
		return "solution"
	}
	return "product"
}
