// Package http provides http transport for the catalog
package http

import (
	stdhttp "net/http"

	"dap/internal/modkit/httpkit"
	"dap/internal/services/catalog/domain"
	svc "dap/internal/services/catalog/service"
)

// Register mounts the products, solutions and tasks collections
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Route("/products", func(rr httpkit.Router) {
		httpkit.Get(rr, "/", h.listProducts)
		httpkit.PostJSON[domain.CreateNamedInput](rr, "/", h.createProduct)
		httpkit.Get(rr, "/{id}", h.getProduct)
		httpkit.PatchJSON[domain.UpdateNamedInput](rr, "/{id}", h.updateProduct)
		httpkit.Delete(rr, "/{id}", h.deleteProduct)
	})
	r.Route("/solutions", func(rr httpkit.Router) {
		httpkit.Get(rr, "/", h.listSolutions)
		httpkit.PostJSON[domain.CreateNamedInput](rr, "/", h.createSolution)
		httpkit.Get(rr, "/{id}", h.getSolution)
		httpkit.PatchJSON[domain.UpdateNamedInput](rr, "/{id}", h.updateSolution)
		httpkit.Delete(rr, "/{id}", h.deleteSolution)
	})
	r.Route("/tasks", func(rr httpkit.Router) {
		httpkit.Get(rr, "/", h.listTasks)
		httpkit.PostJSON[domain.CreateTaskInput](rr, "/", h.createTask)
		httpkit.Get(rr, "/{id}", h.getTask)
		httpkit.PatchJSON[domain.UpdateTaskInput](rr, "/{id}", h.updateTask)
		httpkit.Delete(rr, "/{id}", h.deleteTask)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route GET /products Catalog productsList
// @Summary Page products by creation time
// @Tags Catalog
// @Produce json
// @Param first query int false "page size going forward"
// @Param after query string false "cursor to continue after"
// @Param last query int false "page size going backward"
// @Param before query string false "cursor to continue before"
// @Success 200 {object} paging.Connection[domain.Product] "ok"
// @Failure 422 {object} httpkit.Envelope "invalid paging arguments"
// @Router /products [get]
func (h *handlers) listProducts(r *stdhttp.Request) (any, error) {
	a, err := httpkit.PageArgs(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ListProducts(r.Context(), a)
}

// swagger:route POST /products Catalog productsCreate
// @Summary Create a product
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body domain.CreateNamedInput true "Product"
// @Success 201 {object} domain.Product "created"
// @Router /products [post]
func (h *handlers) createProduct(r *stdhttp.Request, in domain.CreateNamedInput) (any, error) {
	p, err := h.svc.CreateProduct(r.Context(), httpkit.Actor(r), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(p), nil
}

// swagger:route GET /products/{id} Catalog productsGet
// @Summary Get a product
// @Tags Catalog
// @Produce json
// @Success 200 {object} domain.Product "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /products/{id} [get]
func (h *handlers) getProduct(r *stdhttp.Request) (any, error) {
	return h.svc.GetProduct(r.Context(), httpkit.Param(r, "id"))
}

// swagger:route PATCH /products/{id} Catalog productsUpdate
// @Summary Update a product, the previous values are kept in a change set
// @Tags Catalog
// @Accept json
// @Produce json
// @Param X-Actor-ID header string false "acting user id"
// @Param payload body domain.UpdateNamedInput true "Fields to change"
// @Success 200 {object} domain.Product "ok"
// @Router /products/{id} [patch]
func (h *handlers) updateProduct(r *stdhttp.Request, in domain.UpdateNamedInput) (any, error) {
	return h.svc.UpdateProduct(r.Context(), httpkit.Actor(r), httpkit.Param(r, "id"), in)
}

// swagger:route DELETE /products/{id} Catalog productsDelete
// @Summary Soft delete a product
// @Tags Catalog
// @Produce json
// @Success 200 {object} domain.DeleteOutput "ok"
// @Router /products/{id} [delete]
func (h *handlers) deleteProduct(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if err := h.svc.DeleteProduct(r.Context(), httpkit.Actor(r), id); err != nil {
		return nil, err
	}
	return domain.DeleteOutput{ID: id, OK: true}, nil
}

// swagger:route GET /solutions Catalog solutionsList
// @Summary Page solutions by creation time
// @Tags Catalog
// @Produce json
// @Success 200 {object} paging.Connection[domain.Solution] "ok"
// @Router /solutions [get]
func (h *handlers) listSolutions(r *stdhttp.Request) (any, error) {
	a, err := httpkit.PageArgs(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ListSolutions(r.Context(), a)
}

// @Summary Create a solution
// @Tags Catalog
// @Router /solutions [post]
func (h *handlers) createSolution(r *stdhttp.Request, in domain.CreateNamedInput) (any, error) {
	s, err := h.svc.CreateSolution(r.Context(), httpkit.Actor(r), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(s), nil
}

// @Summary Get a solution
// @Tags Catalog
// @Router /solutions/{id} [get]
func (h *handlers) getSolution(r *stdhttp.Request) (any, error) {
	return h.svc.GetSolution(r.Context(), httpkit.Param(r, "id"))
}

// @Summary Update a solution
// @Tags Catalog
// @Router /solutions/{id} [patch]
func (h *handlers) updateSolution(r *stdhttp.Request, in domain.UpdateNamedInput) (any, error) {
	return h.svc.UpdateSolution(r.Context(), httpkit.Actor(r), httpkit.Param(r, "id"), in)
}

// @Summary Soft delete a solution
// @Tags Catalog
// @Router /solutions/{id} [delete]
func (h *handlers) deleteSolution(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if err := h.svc.DeleteSolution(r.Context(), httpkit.Actor(r), id); err != nil {
		return nil, err
	}
	return domain.DeleteOutput{ID: id, OK: true}, nil
}

// swagger:route GET /tasks Catalog tasksList
// @Summary Page tasks, optionally under one product or solution
// @Tags Catalog
// @Produce json
// @Param product_id query string false "owning product"
// @Param solution_id query string false "owning solution"
// @Success 200 {object} paging.Connection[domain.Task] "ok"
// @Router /tasks [get]
func (h *handlers) listTasks(r *stdhttp.Request) (any, error) {
	a, err := httpkit.PageArgs(r)
	if err != nil {
		return nil, err
	}
	scope := domain.TaskScope{
		ProductID:  httpkit.QueryString(r, "product_id"),
		SolutionID: httpkit.QueryString(r, "solution_id"),
	}
	return h.svc.ListTasks(r.Context(), scope, a)
}

// @Summary Create a task
// @Tags Catalog
// @Router /tasks [post]
func (h *handlers) createTask(r *stdhttp.Request, in domain.CreateTaskInput) (any, error) {
	t, err := h.svc.CreateTask(r.Context(), httpkit.Actor(r), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(t), nil
}

// @Summary Get a task
// @Tags Catalog
// @Router /tasks/{id} [get]
func (h *handlers) getTask(r *stdhttp.Request) (any, error) {
	return h.svc.GetTask(r.Context(), httpkit.Param(r, "id"))
}

// @Summary Update a task
// @Tags Catalog
// @Router /tasks/{id} [patch]
func (h *handlers) updateTask(r *stdhttp.Request, in domain.UpdateTaskInput) (any, error) {
	return h.svc.UpdateTask(r.Context(), httpkit.Actor(r), httpkit.Param(r, "id"), in)
}

// @Summary Soft delete a task
// @Tags Catalog
// @Router /tasks/{id} [delete]
func (h *handlers) deleteTask(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if err := h.svc.DeleteTask(r.Context(), httpkit.Actor(r), id); err != nil {
		return nil, err
	}
	return domain.DeleteOutput{ID: id, OK: true}, nil
}
