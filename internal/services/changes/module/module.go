// Package module wires change sets into the API using modkit
package module

import (
	modkit "dap/internal/modkit"
	"dap/internal/modkit/httpkit"
	auditdom "dap/internal/services/audit/domain"
	"dap/internal/services/changes/domain"
	changeshttp "dap/internal/services/changes/http"
	changesrepo "dap/internal/services/changes/repo"
	changessvc "dap/internal/services/changes/service"
)

// Needs are the ports changes consumes, pass them with modkit.WithPorts
type Needs struct {
	Actors domain.ActorDirectory
	Audit  auditdom.Sink
}

// Module serves /changesets, revert stays unavailable until BindEntities runs
type Module struct {
	modkit.Base
	deps  modkit.Deps
	mgr   *changessvc.Manager
	ports Ports
}

// New builds the changes module, its revert engine is bound once the catalog is up
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build("changes", "/changesets", opts...), deps: deps}
	needs := modkit.NeedsOf[Needs](m.Base)

	m.mgr = changessvc.New(deps.PG, changesrepo.NewPG(), needs.Actors, FromConfig(deps.Cfg), deps.Log)
	m.ports = Ports{Recorder: m.mgr, Service: m.mgr, Binder: m}
	m.Routes(func(r httpkit.Router) { changeshttp.Register(r, m.mgr, needs.Audit) })
	return m
}

// BindEntities builds the revert engine over p
func (m *Module) BindEntities(p domain.EntityPort) {
	m.mgr.BindReverter(changessvc.NewReverter(m.deps.PG, changesrepo.NewPG(), p, m.deps.Bus, m.deps.Log))
}
