// Package repo provides clickhouse storage for the audit log
package repo

import (
	"context"
	"time"

	"dap/internal/platform/store"
)

// Repo defines audit storage
type Repo interface {
	Insert(ctx context.Context, rows ...RowEntry) error
	Recent(ctx context.Context, limit int) ([]RowEntry, error)
}

// RowEntry is an audit_log row, Details is a json string
type RowEntry struct {
	CreatedAt time.Time
	Action    string
	Entity    string
	EntityID  string
	UserID    *string
	Details   string
}

const insertTarget = `audit_log (created_at, action, entity, entity_id, user_id, details)`

// CH stores entries in a clickhouse MergeTree table
type CH struct{ ch store.Clickhouse }

// NewCH wraps a clickhouse seam, nil gives a Noop repo
func NewCH(ch store.Clickhouse) Repo {
	if ch == nil {
		return Noop{}
	}
	return &CH{ch: ch}
}

// Insert appends rows in one batch
func (r *CH) Insert(ctx context.Context, rows ...RowEntry) error {
	batch := make([][]any, 0, len(rows))
	for _, e := range rows {
		batch = append(batch, []any{e.CreatedAt.UTC(), e.Action, e.Entity, e.EntityID, e.UserID, e.Details})
	}
	return r.ch.Insert(ctx, insertTarget, batch)
}

// Recent returns the newest entries first
func (r *CH) Recent(ctx context.Context, limit int) ([]RowEntry, error) {
	const sql = `
		SELECT created_at, action, entity, entity_id, user_id, details
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT ?
	`
	rs, err := r.ch.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	out := make([]RowEntry, 0, limit)
	for rs.Next() {
		var e RowEntry
		if err := rs.Scan(&e.CreatedAt, &e.Action, &e.Entity, &e.EntityID, &e.UserID, &e.Details); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rs.Err()
}

// Noop stores nothing, used when clickhouse is disabled
type Noop struct{}

// Insert implements Repo
func (Noop) Insert(context.Context, ...RowEntry) error { return nil }

// Recent implements Repo
func (Noop) Recent(context.Context, int) ([]RowEntry, error) { return []RowEntry{}, nil }
