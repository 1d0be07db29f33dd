package service

import (
	"context"
	"strings"

	"dap/internal/core/paging"
	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	auditdom "dap/internal/services/audit/domain"
	"dap/internal/services/catalog/domain"
	"dap/internal/services/catalog/repo"
	changesdom "dap/internal/services/changes/domain"
)

func toTask(r repo.RowTask) domain.Task {
	return domain.Task{
		ID:             r.ID,
		ProductID:      r.ProductID,
		SolutionID:     r.SolutionID,
		Name:           r.Name,
		Description:    r.Description,
		EstMinutes:     r.EstMinutes,
		Weight:         r.Weight,
		Notes:          r.Notes,
		Priority:       r.Priority,
		SequenceNumber: r.SequenceNumber,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		DeletedAt:      r.DeletedAt,
	}
}

// scopeOf canonicalizes the parent ids, a malformed id scopes to nothing rather than everything
func scopeOf(ts domain.TaskScope) (repo.Scope, bool) {
	var s repo.Scope
	for _, p := range []struct {
		in  *string
		out **string
	}{{ts.ProductID, &s.ProductID}, {ts.SolutionID, &s.SolutionID}} {
		if p.in == nil {
			continue
		}
		id, err := canonical("parent", *p.in)
		if err != nil {
			return s, false
		}
		*p.out = &id
	}
	return s, true
}

func parentScope(t repo.RowTask) repo.Scope {
	return repo.Scope{ProductID: t.ProductID, SolutionID: t.SolutionID}
}

// ListTasks pages live tasks by creation time within scope
func (s *Svc) ListTasks(ctx context.Context, ts domain.TaskScope, a paging.Args) (paging.Connection[domain.Task], error) {
	if err := paging.Validate(a); err != nil {
		return paging.Connection[domain.Task]{}, err
	}
	scope, ok := scopeOf(ts)
	if !ok {
		return paging.Build[domain.Task](nil, 0, false, false), nil
	}
	src := source[domain.Task]{
		find: func(ctx context.Context, q paging.Query) ([]domain.Task, error) {
			rows, err := s.Repo.FindTasks(ctx, scope, q)
			if err != nil {
				return nil, err
			}
			return mapRows(rows, toTask), nil
		},
		count: func(ctx context.Context) (int, error) { return s.Repo.CountTasks(ctx, scope) },
	}
	return paging.Page(ctx, s.pager, src, a)
}

// GetTask loads a live task
func (s *Svc) GetTask(ctx context.Context, id string) (domain.Task, error) {
	id, err := canonical(domain.EntityTask, id)
	if err != nil {
		return domain.Task{}, err
	}
	row, err := s.Repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return toTask(row), nil
}

// CreateTask inserts a task under exactly one parent
// the summed weight of live siblings may not exceed domain.MaxTaskWeight
func (s *Svc) CreateTask(ctx context.Context, actor *string, in domain.CreateTaskInput) (domain.Task, error) {
	if (in.ProductID == nil) == (in.SolutionID == nil) {
		return domain.Task{}, perr.WithField(perr.InvalidArgf("task needs exactly one of product_id or solution_id"), "product_id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Task{}, perr.WithField(perr.InvalidArgf("name is required"), "name")
	}
	scope, ok := scopeOf(domain.TaskScope{ProductID: in.ProductID, SolutionID: in.SolutionID})
	if !ok {
		return domain.Task{}, perr.WithField(perr.NotFoundf("parent product or solution not found"), "parent")
	}

	var row repo.RowTask
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := checkWeight(ctx, r, scope, "", in.Weight); err != nil {
			return err
		}
		seq := 0
		if in.SequenceNumber != nil {
			seq = *in.SequenceNumber
		} else {
			n, err := r.NextSequence(ctx, scope)
			if err != nil {
				return err
			}
			seq = n
		}
		var err error
		row, err = r.InsertTask(ctx, repo.RowTask{
			ProductID:      scope.ProductID,
			SolutionID:     scope.SolutionID,
			Name:           name,
			Description:    in.Description,
			EstMinutes:     in.EstMinutes,
			Weight:         in.Weight,
			Notes:          in.Notes,
			Priority:       in.Priority,
			SequenceNumber: seq,
		})
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}
	out := toTask(row)
	s.record(ctx, auditdom.ActionCreateTask, domain.EntityTask, row.ID, actor, map[string]any{"name": row.Name, "input": in})
	return out, nil
}

func checkWeight(ctx context.Context, r repo.Repo, scope repo.Scope, excludeID string, w float64) error {
	if w == 0 {
		return nil
	}
	sum, err := r.WeightSum(ctx, scope, excludeID)
	if err != nil {
		return err
	}
	if sum+w > domain.MaxTaskWeight {
		return perr.WithField(perr.InvalidArgf(
			"total weight of tasks cannot exceed %.0f%%, current %.2f%% trying to add %.2f%%",
			domain.MaxTaskWeight, sum, w), "weight")
	}
	return nil
}

func taskPatch(in domain.UpdateTaskInput) (repo.Patch, error) {
	var p repo.Patch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return p, perr.WithField(perr.InvalidArgf("name cannot be blank"), "name")
		}
		p.Set("name", name)
	}
	if in.Description != nil {
		p.Set("description", in.Description)
	}
	if in.EstMinutes != nil {
		p.Set("est_minutes", *in.EstMinutes)
	}
	if in.Weight != nil {
		p.Set("weight", *in.Weight)
	}
	if in.Notes != nil {
		p.Set("notes", in.Notes)
	}
	if in.Priority != nil {
		p.Set("priority", in.Priority)
	}
	if in.SequenceNumber != nil {
		p.Set("sequence_number", *in.SequenceNumber)
	}
	return p, nil
}

// UpdateTask patches a task under a change set
func (s *Svc) UpdateTask(ctx context.Context, actor *string, id string, in domain.UpdateTaskInput) (domain.Task, error) {
	id, err := canonical(domain.EntityTask, id)
	if err != nil {
		return domain.Task{}, err
	}
	p, err := taskPatch(in)
	if err != nil {
		return domain.Task{}, err
	}
	var out domain.Task
	err = s.mutate(ctx, actor, changesdom.KindTask, id, func(r repo.Repo) (any, any, error) {
		before, err := r.GetTask(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if in.Weight != nil {
			if err := checkWeight(ctx, r, parentScope(before), id, *in.Weight); err != nil {
				return nil, nil, err
			}
		}
		after, err := r.UpdateTask(ctx, id, p)
		if err != nil {
			return nil, nil, err
		}
		out = toTask(after)
		return toTask(before), out, nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.record(ctx, auditdom.ActionUpdateTask, domain.EntityTask, id, actor, map[string]any{"name": out.Name, "input": in})
	s.announce(ctx, changesdom.KindTask, out)
	return out, nil
}

// DeleteTask soft deletes a task under a change set
func (s *Svc) DeleteTask(ctx context.Context, actor *string, id string) error {
	id, err := canonical(domain.EntityTask, id)
	if err != nil {
		return err
	}
	var out domain.Task
	var name string
	err = s.mutate(ctx, actor, changesdom.KindTask, id, func(r repo.Repo) (any, any, error) {
		before, err := r.GetTask(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		after, err := r.SoftDeleteTask(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		name, out = before.Name, toTask(after)
		return toTask(before), out, nil
	})
	if err != nil {
		return err
	}
	s.record(ctx, auditdom.ActionDeleteTask, domain.EntityTask, id, actor, map[string]any{"name": name})
	s.announce(ctx, changesdom.KindTask, out)
	return nil
}
