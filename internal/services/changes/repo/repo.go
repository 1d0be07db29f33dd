// Package repo provides postgres access for change sets and their items
package repo

import (
	"context"
	"time"

	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	"dap/internal/platform/store"
)

// Repo defines the repository contract for change sets
type Repo interface {
	InsertSet(ctx context.Context, id string, userID *string) (RowSet, error)
	InsertItem(ctx context.Context, it RowItem) error
	Commit(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit int) ([]RowSet, error)
	Get(ctx context.Context, id string) (RowSet, error)
	Items(ctx context.Context, setIDs ...string) ([]RowItem, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RowSet is a change_sets row
type RowSet struct {
	ID          string
	UserID      *string
	CreatedAt   time.Time
	CommittedAt *time.Time
}

// RowItem is a change_items row
// Before and After hold raw jsonb, nil means sql null
type RowItem struct {
	ID          string
	ChangeSetID string
	EntityType  string
	EntityID    string
	Before      []byte
	After       []byte
	RecordedAt  time.Time
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

const setCols = `id::text, user_id::text, created_at, committed_at`

func scanSet(row store.Row) (RowSet, error) {
	var s RowSet
	err := row.Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.CommittedAt)
	return s, err
}

func (r *queries) InsertSet(ctx context.Context, id string, userID *string) (RowSet, error) {
	const sql = `insert into change_sets (id, user_id) values ($1, $2) returning ` + setCols
	s, err := store.One(ctx, r.q, scanSet, sql, id, userID)
	if err != nil {
		return RowSet{}, perr.FromPostgres(err, "insert change set")
	}
	return s, nil
}

func (r *queries) InsertItem(ctx context.Context, it RowItem) error {
	const sql = `
insert into change_items (change_set_id, entity_type, entity_id, before, after)
values ($1, $2, $3, $4::jsonb, $5::jsonb)
`
	if _, err := r.q.Exec(ctx, sql, it.ChangeSetID, it.EntityType, it.EntityID, jsonArg(it.Before), jsonArg(it.After)); err != nil {
		return perr.FromPostgres(err, "insert change item")
	}
	return nil
}

// Commit stamps committed_at, reporting whether a set matched
// committing twice moves the stamp forward
func (r *queries) Commit(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `update change_sets set committed_at = now() where id = $1`, id)
	if err != nil {
		return false, perr.FromPostgres(err, "commit change set")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queries) List(ctx context.Context, limit int) ([]RowSet, error) {
	sql := `select ` + setCols + ` from change_sets order by created_at desc, id desc limit $1`
	out, err := store.Many(ctx, r.q, scanSet, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list change sets")
	}
	return out, nil
}

func (r *queries) Get(ctx context.Context, id string) (RowSet, error) {
	sql := `select ` + setCols + ` from change_sets where id = $1`
	s, err := store.One(ctx, r.q, scanSet, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return RowSet{}, perr.NotFoundf("change set %s not found", id)
		}
		return RowSet{}, perr.FromPostgres(err, "get change set")
	}
	return s, nil
}

// Items returns the items of the given sets in recording order
func (r *queries) Items(ctx context.Context, setIDs ...string) ([]RowItem, error) {
	if len(setIDs) == 0 {
		return nil, nil
	}
	const sql = `
select id::text, change_set_id::text, entity_type, entity_id, before, after, recorded_at
from change_items
where change_set_id = any($1::text[]::uuid[])
order by recorded_at asc, id asc
`
	out, err := store.Many(ctx, r.q, func(row store.Row) (RowItem, error) {
		var it RowItem
		err := row.Scan(&it.ID, &it.ChangeSetID, &it.EntityType, &it.EntityID, &it.Before, &it.After, &it.RecordedAt)
		return it, err
	}, sql, setIDs)
	if err != nil {
		return nil, perr.FromPostgres(err, "list change items")
	}
	return out, nil
}

// Delete removes the set, items go with it through on delete cascade
func (r *queries) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `delete from change_sets where id = $1`, id)
	if err != nil {
		return false, perr.FromPostgres(err, "delete change set")
	}
	return tag.RowsAffected() > 0, nil
}

// jsonArg hands pgx a text value for jsonb, nil stays sql null
func jsonArg(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
