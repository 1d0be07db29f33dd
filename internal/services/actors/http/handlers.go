// Package http provides http transport for actors
package http

import (
	stdhttp "net/http"

	"dap/internal/modkit/httpkit"
	"dap/internal/services/actors/domain"
	svc "dap/internal/services/actors/service"
)

// Register mounts actor endpoints
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /actors Actors actorsCreate
// @Summary Register an actor that change sets can be attributed to
// @Tags Actors
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Actor"
// @Success 201 {object} domain.User "created"
// @Router /actors [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	u, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(u), nil
}

// swagger:route GET /actors/{id} Actors actorsGet
// @Summary Get an actor
// @Tags Actors
// @Produce json
// @Success 200 {object} domain.User "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /actors/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}
