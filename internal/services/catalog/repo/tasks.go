package repo

import (
	"context"

	"dap/internal/core/paging"
	perr "dap/internal/platform/errors"
	"dap/internal/platform/store"
)

const taskCols = `id::text, product_id::text, solution_id::text, name, description, est_minutes, weight,
notes, priority, sequence_number, created_at, updated_at, deleted_at`

var taskPatchable = map[string]bool{
	"name":            true,
	"description":     true,
	"est_minutes":     true,
	"weight":          true,
	"notes":           true,
	"priority":        true,
	"sequence_number": true,
}

func scanTask(row store.Row) (RowTask, error) {
	var t RowTask
	err := row.Scan(&t.ID, &t.ProductID, &t.SolutionID, &t.Name, &t.Description, &t.EstMinutes, &t.Weight,
		&t.Notes, &t.Priority, &t.SequenceNumber, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	return t, err
}

// scoped applies the live row filter plus the optional parent ids
func scoped(s Scope) *where {
	w := &where{}
	w.and("deleted_at is null")
	if s.ProductID != nil {
		w.and("product_id = " + w.arg(*s.ProductID))
	}
	if s.SolutionID != nil {
		w.and("solution_id = " + w.arg(*s.SolutionID))
	}
	return w
}

func (r *queries) FindTasks(ctx context.Context, s Scope, q paging.Query) ([]RowTask, error) {
	w := scoped(s)
	tail := keyset(w, q)
	rows, err := store.Many(ctx, r.q, scanTask, `select `+taskCols+` from tasks`+w.String()+tail, w.args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list tasks")
	}
	return rows, nil
}

func (r *queries) CountTasks(ctx context.Context, s Scope) (int, error) {
	w := scoped(s)
	n, err := store.Scalar[int64](ctx, r.q, `select count(*) from tasks`+w.String(), w.args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "count tasks")
	}
	return int(n), nil
}

func (r *queries) GetTask(ctx context.Context, id string) (RowTask, error) {
	return oneTask(ctx, r, id, `select `+taskCols+` from tasks where id = $1 and deleted_at is null`, id)
}

func (r *queries) InsertTask(ctx context.Context, t RowTask) (RowTask, error) {
	const sql = `
insert into tasks (product_id, solution_id, name, description, est_minutes, weight, notes, priority, sequence_number)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
returning ` + taskCols
	row, err := store.One(ctx, r.q, scanTask, sql,
		t.ProductID, t.SolutionID, t.Name, t.Description, t.EstMinutes, t.Weight, t.Notes, t.Priority, t.SequenceNumber)
	if err != nil {
		if perr.IsForeignKeyViolation(err) {
			return RowTask{}, perr.WithField(perr.NotFoundf("parent product or solution not found"), "parent")
		}
		return RowTask{}, perr.FromPostgresWithField(err, "insert task")
	}
	return row, nil
}

func (r *queries) UpdateTask(ctx context.Context, id string, p Patch) (RowTask, error) {
	if p.Empty() {
		return r.GetTask(ctx, id)
	}
	w := &where{}
	set, err := p.assignments(w, taskPatchable)
	if err != nil {
		return RowTask{}, err
	}
	w.and("id = " + w.arg(id))
	if !p.Undelete {
		w.and("deleted_at is null")
	}
	return oneTask(ctx, r, id, `update tasks set `+set+w.String()+` returning `+taskCols, w.args...)
}

// SoftDeleteTask also drops the task out of the sequence order
func (r *queries) SoftDeleteTask(ctx context.Context, id string) (RowTask, error) {
	const sql = `update tasks set deleted_at = now(), updated_at = now(), sequence_number = 0
where id = $1 and deleted_at is null returning ` + taskCols
	return oneTask(ctx, r, id, sql, id)
}

func (r *queries) NextSequence(ctx context.Context, s Scope) (int, error) {
	w := scoped(s)
	n, err := store.Scalar[int64](ctx, r.q, `select coalesce(max(sequence_number), 0) + 1 from tasks`+w.String(), w.args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "next task sequence")
	}
	return int(n), nil
}

func (r *queries) WeightSum(ctx context.Context, s Scope, excludeID string) (float64, error) {
	w := scoped(s)
	if excludeID != "" {
		w.and("id <> " + w.arg(excludeID))
	}
	v, err := store.Scalar[float64](ctx, r.q, `select coalesce(sum(weight), 0)::float8 from tasks`+w.String(), w.args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "sum task weight")
	}
	return v, nil
}

func oneTask(ctx context.Context, r *queries, id, sql string, args ...any) (RowTask, error) {
	t, err := store.One(ctx, r.q, scanTask, sql, args...)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return RowTask{}, perr.NotFoundf("task %s not found", id)
		}
		return RowTask{}, perr.FromPostgresWithField(err, "tasks")
	}
	return t, nil
}
