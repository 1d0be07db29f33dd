package store

import (
	"context"
	"errors"
	"time"

	"dap/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what *pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxPool is the slice of *pgxpool.Pool the runner needs
type pgxPool interface {
	pgxQuerier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// traced adapts a pgxQuerier to RowQuerier and reports each statement to the tracer
type traced struct {
	q      pgxQuerier
	tracer pg.Tracer
}

func (t traced) report(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	t.tracer.Statement(ctx, pg.Statement{SQL: sql, Args: args, Took: time.Since(start), Err: err})
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	return ct, err
}

// Query reports when the result set opens, scan time is not included
func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow reports once Scan returns so the row error is captured
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return scanHook{
		row: t.q.QueryRow(ctx, sql, args...),
		done: func(err error) {
			t.report(ctx, sql, args, start, err)
		},
	}
}

// pgRunner is the TxRunner published on Store.PG
type pgRunner struct {
	traced
	pool pgxPool
}

func newPGRunner(pool pgxPool, tracer pg.Tracer) *pgRunner {
	return &pgRunner{traced: traced{q: pool, tracer: tracer}, pool: pool}
}

// Tx commits when fn returns nil and rolls back otherwise, a panic in fn also rolls back
func (r *pgRunner) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(traced{q: tx, tracer: r.tracer}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgRunner) Ping(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return errors.New("pg: nil runner")
	}
	return r.pool.Ping(ctx)
}

func (r *pgRunner) Close() error {
	r.pool.Close()
	return nil
}

type scanHook struct {
	row  pgx.Row
	done func(error)
}

func (h scanHook) Scan(dst ...any) error {
	err := h.row.Scan(dst...)
	h.done(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = fd.Name
	}
	return out
}
