// Package module wires the audit log into the API using modkit
package module

import (
	modkit "dap/internal/modkit"
	"dap/internal/modkit/httpkit"
	audithttp "dap/internal/services/audit/http"
	auditrepo "dap/internal/services/audit/repo"
	auditsvc "dap/internal/services/audit/service"
)

type Module struct {
	modkit.Base
	ports Ports
}

// New builds the audit module, without clickhouse entries are dropped
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build("audit", "/audit", opts...)}
	svc := auditsvc.New(auditrepo.NewCH(deps.CH), deps.Log)
	if deps.CH == nil {
		deps.Log.Info().Msg("audit: clickhouse disabled, entries are discarded")
	}
	m.ports = Ports{Sink: svc}
	m.Routes(func(r httpkit.Router) { audithttp.Register(r, svc) })
	return m
}
