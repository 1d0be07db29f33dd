// Package module wires the catalog into the API using modkit
package module

import (
	modkit "dap/internal/modkit"
	"dap/internal/modkit/httpkit"
	auditdom "dap/internal/services/audit/domain"
	cataloghttp "dap/internal/services/catalog/http"
	catalogrepo "dap/internal/services/catalog/repo"
	catalogsvc "dap/internal/services/catalog/service"
	changesdom "dap/internal/services/changes/domain"
)

// Needs are the ports the catalog reports mutations to, pass them with modkit.WithPorts
type Needs struct {
	Changes changesdom.Recorder
	Audit   auditdom.Sink
}

// Module mounts products, solutions and tasks at the api root
type Module struct {
	modkit.Base
	ports Ports
}

// New builds the catalog module, its service doubles as the entity port for reverts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build("catalog", "", opts...)}
	needs := modkit.NeedsOf[Needs](m.Base)

	svc := catalogsvc.New(deps.PG, catalogrepo.NewPG(), catalogsvc.Deps{
		Changes: needs.Changes,
		Audit:   needs.Audit,
		Bus:     deps.Bus,
	}, FromConfig(deps.Cfg), deps.Log)
	m.ports = Ports{Entities: svc, Service: svc}
	m.Routes(func(r httpkit.Router) { cataloghttp.Register(r, svc) })
	return m
}
