// Package http provides http transport for change sets
package http

import (
	stdhttp "net/http"

	"dap/internal/modkit/httpkit"
	auditdom "dap/internal/services/audit/domain"
	"dap/internal/services/changes/domain"
	svc "dap/internal/services/changes/service"
)

// Register mounts change set endpoints
// a nil audit sink discards entries
func Register(r httpkit.Router, s svc.Service, audit auditdom.Sink) {
	if audit == nil {
		audit = auditdom.Discard{}
	}
	h := &handlers{svc: s, audit: audit}
	httpkit.Post(r, "/", h.open)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.Post(r, "/{id}/commit", h.commit)
	httpkit.Post(r, "/{id}/revert", h.revert)
	httpkit.Post(r, "/{id}/undo", h.undo)
}

type handlers struct {
	svc   svc.Service
	audit auditdom.Sink
}

func (h *handlers) log(r *stdhttp.Request, a auditdom.Action, id string, details map[string]any) {
	h.audit.Log(r.Context(), auditdom.Entry{
		Action:   a,
		Entity:   "ChangeSet",
		EntityID: id,
		UserID:   httpkit.Actor(r),
		Details:  details,
	})
}

// swagger:route POST /changesets Changes changesOpen
// @Summary Open a change set for the calling actor
// @Tags Changes
// @Produce json
// @Param X-Actor-ID header string false "acting user id"
// @Success 201 {object} domain.OpenOutput "created"
// @Router /changesets [post]
func (h *handlers) open(r *stdhttp.Request) (any, error) {
	hd := h.svc.Open(r.Context(), httpkit.Actor(r))
	persisted := domain.IsPersisted(hd)
	if persisted {
		h.log(r, auditdom.ActionBeginChangeSet, hd.SetID(), nil)
	}
	return httpkit.Created(domain.OpenOutput{ID: hd.SetID(), Persisted: persisted}), nil
}

// swagger:route GET /changesets Changes changesList
// @Summary Newest change sets with their items
// @Tags Changes
// @Produce json
// @Param limit query int false "max sets (default 50, max 200)"
// @Success 200 {array} domain.ChangeSet "ok"
// @Router /changesets [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit")
	if err != nil {
		return nil, err
	}
	n := 0
	if limit != nil {
		n = *limit
	}
	return h.svc.List(r.Context(), n)
}

// swagger:route GET /changesets/{id} Changes changesGet
// @Summary Get a change set with its items
// @Tags Changes
// @Produce json
// @Success 200 {object} domain.ChangeSet "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /changesets/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

// swagger:route POST /changesets/{id}/commit Changes changesCommit
// @Summary Commit a change set
// @Tags Changes
// @Produce json
// @Success 200 {object} domain.AckOutput "ok"
// @Router /changesets/{id}/commit [post]
func (h *handlers) commit(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if err := h.svc.Commit(r.Context(), id); err != nil {
		return nil, err
	}
	h.log(r, auditdom.ActionCommitChangeSet, id, nil)
	return domain.AckOutput{ID: id, OK: true}, nil
}

// swagger:route POST /changesets/{id}/revert Changes changesRevert
// @Summary Restore every entity in the set to its before image and drop the set
// @Tags Changes
// @Produce json
// @Success 200 {object} domain.RevertOutput "ok"
// @Router /changesets/{id}/revert [post]
func (h *handlers) revert(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	rep, err := h.svc.RevertWithReport(r.Context(), id)
	if err != nil {
		return nil, err
	}
	h.log(r, auditdom.ActionRevertChangeSet, id, map[string]any{
		"restored": rep.Restored,
		"failed":   rep.Failed,
		"skipped":  rep.Skipped,
	})
	return domain.RevertOutput{OK: true, Report: rep}, nil
}

// swagger:route POST /changesets/{id}/undo Changes changesUndo
// @Summary Discard a change set without restoring entities
// @Tags Changes
// @Produce json
// @Success 200 {object} domain.AckOutput "ok"
// @Router /changesets/{id}/undo [post]
func (h *handlers) undo(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if err := h.svc.Undo(r.Context(), id); err != nil {
		return nil, err
	}
	h.log(r, auditdom.ActionUndoChangeSet, id, nil)
	return domain.AckOutput{ID: id, OK: true}, nil
}
