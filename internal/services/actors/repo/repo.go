// Package repo provides postgres access for actors
package repo

import (
	"context"
	"time"

	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	"dap/internal/platform/store"
)

// Repo defines the repository contract for actors
type Repo interface {
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, email, name string) (RowUser, error)
	Get(ctx context.Context, id string) (RowUser, error)
}

// RowUser is a users row
type RowUser struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
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

// Exists expects a canonical uuid, callers filter malformed ids first
func (r *queries) Exists(ctx context.Context, id string) (bool, error) {
	return store.Scalar[bool](ctx, r.q, `select exists(select 1 from users where id = $1)`, id)
}

func (r *queries) Insert(ctx context.Context, email, name string) (RowUser, error) {
	const sql = `
insert into users (email, name)
values ($1, nullif($2, ''))
returning id::text, email, coalesce(name, ''), created_at
`
	var u RowUser
	if err := r.q.QueryRow(ctx, sql, email, name).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		if perr.IsDuplicateKey(err) {
			return RowUser{}, perr.WithField(perr.DuplicateKeyf("email already registered"), "email")
		}
		return RowUser{}, perr.FromPostgres(err, "insert user")
	}
	return u, nil
}

func (r *queries) Get(ctx context.Context, id string) (RowUser, error) {
	const sql = `select id::text, email, coalesce(name, ''), created_at from users where id = $1`
	u, err := store.One(ctx, r.q, scanUser, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return RowUser{}, perr.NotFoundf("user %s not found", id)
		}
		return RowUser{}, perr.FromPostgres(err, "get user")
	}
	return u, nil
}

func scanUser(row store.Row) (RowUser, error) {
	var u RowUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	return u, err
}
