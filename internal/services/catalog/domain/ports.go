package domain

import (
	"context"

	"dap/internal/core/paging"
	changesdom "dap/internal/services/changes/domain"
)

// ServicePort is the catalog contract served over http
// actor is the acting user id, nil when anonymous
type ServicePort interface {
	changesdom.EntityPort

	ListProducts(ctx context.Context, a paging.Args) (paging.Connection[Product], error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, actor *string, in CreateNamedInput) (Product, error)
	UpdateProduct(ctx context.Context, actor *string, id string, in UpdateNamedInput) (Product, error)
	DeleteProduct(ctx context.Context, actor *string, id string) error

	ListSolutions(ctx context.Context, a paging.Args) (paging.Connection[Solution], error)
	GetSolution(ctx context.Context, id string) (Solution, error)
	CreateSolution(ctx context.Context, actor *string, in CreateNamedInput) (Solution, error)
	UpdateSolution(ctx context.Context, actor *string, id string, in UpdateNamedInput) (Solution, error)
	DeleteSolution(ctx context.Context, actor *string, id string) error

	ListTasks(ctx context.Context, scope TaskScope, a paging.Args) (paging.Connection[Task], error)
	GetTask(ctx context.Context, id string) (Task, error)
	CreateTask(ctx context.Context, actor *string, in CreateTaskInput) (Task, error)
	UpdateTask(ctx context.Context, actor *string, id string, in UpdateTaskInput) (Task, error)
	DeleteTask(ctx context.Context, actor *string, id string) error
}
