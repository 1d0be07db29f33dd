package service

import (
	"context"
	"strings"

	"dap/internal/core/paging"
	perr "dap/internal/platform/errors"
	auditdom "dap/internal/services/audit/domain"
	"dap/internal/services/catalog/domain"
	"dap/internal/services/catalog/repo"
	changesdom "dap/internal/services/changes/domain"
)

// named describes how one name and description table maps into the domain
type named[T paging.Node] struct {
	table  repo.Table
	kind   changesdom.EntityKind
	to     func(repo.RowNamed) T
	create auditdom.Action
	update auditdom.Action
	delete auditdom.Action
}

var (
	products = named[domain.Product]{
		table:  repo.Products,
		kind:   changesdom.KindProduct,
		to:     toProduct,
		create: auditdom.ActionCreateProduct,
		update: auditdom.ActionUpdateProduct,
		delete: auditdom.ActionDeleteProduct,
	}
	solutions = named[domain.Solution]{
		table:  repo.Solutions,
		kind:   changesdom.KindSolution,
		to:     toSolution,
		create: auditdom.ActionCreateSolution,
		update: auditdom.ActionUpdateSolution,
		delete: auditdom.ActionDeleteSolution,
	}
)

func toProduct(r repo.RowNamed) domain.Product {
	return domain.Product{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, DeletedAt: r.DeletedAt}
}

func toSolution(r repo.RowNamed) domain.Solution {
	return domain.Solution{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, DeletedAt: r.DeletedAt}
}

func listNamed[T paging.Node](ctx context.Context, s *Svc, n named[T], a paging.Args) (paging.Connection[T], error) {
	src := source[T]{
		find: func(ctx context.Context, q paging.Query) ([]T, error) {
			rows, err := s.Repo.FindNamed(ctx, n.table, q)
			if err != nil {
				return nil, err
			}
			return mapRows(rows, n.to), nil
		},
		count: func(ctx context.Context) (int, error) { return s.Repo.CountNamed(ctx, n.table) },
	}
	return paging.Page(ctx, s.pager, src, a)
}

func getNamed[T paging.Node](ctx context.Context, s *Svc, n named[T], id string) (T, error) {
	var zero T
	id, err := canonical(string(n.kind), id)
	if err != nil {
		return zero, err
	}
	row, err := s.Repo.GetNamed(ctx, n.table, id)
	if err != nil {
		return zero, err
	}
	return n.to(row), nil
}

func createNamed[T paging.Node](ctx context.Context, s *Svc, n named[T], actor *string, in domain.CreateNamedInput) (T, error) {
	var zero T
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return zero, perr.WithField(perr.InvalidArgf("name is required"), "name")
	}
	row, err := s.Repo.InsertNamed(ctx, n.table, name, in.Description)
	if err != nil {
		return zero, err
	}
	out := n.to(row)
	s.record(ctx, n.create, string(n.kind), row.ID, actor, map[string]any{"name": row.Name})
	return out, nil
}

func namedPatch(in domain.UpdateNamedInput) (repo.Patch, error) {
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
	return p, nil
}

func updateNamed[T paging.Node](ctx context.Context, s *Svc, n named[T], actor *string, id string, in domain.UpdateNamedInput) (T, error) {
	var zero T
	id, err := canonical(string(n.kind), id)
	if err != nil {
		return zero, err
	}
	p, err := namedPatch(in)
	if err != nil {
		return zero, err
	}
	var (
		out  T
		name string
	)
	err = s.mutate(ctx, actor, n.kind, id, func(r repo.Repo) (any, any, error) {
		before, err := r.GetNamed(ctx, n.table, id)
		if err != nil {
			return nil, nil, err
		}
		after, err := r.UpdateNamed(ctx, n.table, id, p)
		if err != nil {
			return nil, nil, err
		}
		name, out = after.Name, n.to(after)
		return n.to(before), out, nil
	})
	if err != nil {
		return zero, err
	}
	s.record(ctx, n.update, string(n.kind), id, actor, map[string]any{"name": name, "input": in})
	s.announce(ctx, n.kind, out)
	return out, nil
}

func deleteNamed[T paging.Node](ctx context.Context, s *Svc, n named[T], actor *string, id string) error {
	id, err := canonical(string(n.kind), id)
	if err != nil {
		return err
	}
	var name string
	var out T
	err = s.mutate(ctx, actor, n.kind, id, func(r repo.Repo) (any, any, error) {
		before, err := r.GetNamed(ctx, n.table, id)
		if err != nil {
			return nil, nil, err
		}
		after, err := r.SoftDeleteNamed(ctx, n.table, id)
		if err != nil {
			return nil, nil, err
		}
		name, out = before.Name, n.to(after)
		return n.to(before), out, nil
	})
	if err != nil {
		return err
	}
	s.record(ctx, n.delete, string(n.kind), id, actor, map[string]any{"name": name})
	s.announce(ctx, n.kind, out)
	return nil
}

// ListProducts pages live products by creation time
func (s *Svc) ListProducts(ctx context.Context, a paging.Args) (paging.Connection[domain.Product], error) {
	return listNamed(ctx, s, products, a)
}

// GetProduct loads a live product
func (s *Svc) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return getNamed(ctx, s, products, id)
}

// CreateProduct inserts a product
func (s *Svc) CreateProduct(ctx context.Context, actor *string, in domain.CreateNamedInput) (domain.Product, error) {
	return createNamed(ctx, s, products, actor, in)
}

// UpdateProduct patches a product under a change set
func (s *Svc) UpdateProduct(ctx context.Context, actor *string, id string, in domain.UpdateNamedInput) (domain.Product, error) {
	return updateNamed(ctx, s, products, actor, id, in)
}

// DeleteProduct soft deletes a product under a change set
func (s *Svc) DeleteProduct(ctx context.Context, actor *string, id string) error {
	return deleteNamed(ctx, s, products, actor, id)
}

// ListSolutions pages live solutions by creation time
func (s *Svc) ListSolutions(ctx context.Context, a paging.Args) (paging.Connection[domain.Solution], error) {
	return listNamed(ctx, s, solutions, a)
}

// GetSolution loads a live solution
func (s *Svc) GetSolution(ctx context.Context, id string) (domain.Solution, error) {
	return getNamed(ctx, s, solutions, id)
}

// CreateSolution inserts a solution
func (s *Svc) CreateSolution(ctx context.Context, actor *string, in domain.CreateNamedInput) (domain.Solution, error) {
	return createNamed(ctx, s, solutions, actor, in)
}

// UpdateSolution patches a solution under a change set
func (s *Svc) UpdateSolution(ctx context.Context, actor *string, id string, in domain.UpdateNamedInput) (domain.Solution, error) {
	return updateNamed(ctx, s, solutions, actor, id, in)
}

// DeleteSolution soft deletes a solution under a change set
func (s *Svc) DeleteSolution(ctx context.Context, actor *string, id string) error {
	return deleteNamed(ctx, s, solutions, actor, id)
}
