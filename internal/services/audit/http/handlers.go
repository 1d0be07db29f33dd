// Package http provides http transport for the audit log
package http

import (
	stdhttp "net/http"

	"dap/internal/modkit/httpkit"
	svc "dap/internal/services/audit/service"
)

// Register mounts audit endpoints
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.recent)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /audit Audit auditRecent
// @Summary Newest audit entries
// @Tags Audit
// @Produce json
// @Param limit query int false "max entries (default 50, max 200)"
// @Success 200 {array} domain.Entry "ok"
// @Router /audit [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit")
	if err != nil {
		return nil, err
	}
	n := 0
	if limit != nil {
		n = *limit
	}
	return h.svc.Recent(r.Context(), n)
}
