// Package module wires actors into the API using modkit
package module

import (
	modkit "dap/internal/modkit"
	"dap/internal/modkit/httpkit"
	actorshttp "dap/internal/services/actors/http"
	actorsrepo "dap/internal/services/actors/repo"
	actorssvc "dap/internal/services/actors/service"
)

// Module serves /actors and exposes the directory change sets consult
type Module struct {
	modkit.Base
	ports Ports
}

// New builds the actors module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build("actors", "/actors", opts...)}
	svc := actorssvc.New(deps.PG, actorsrepo.NewPG())
	m.ports = Ports{Directory: svc}
	m.Routes(func(r httpkit.Router) { actorshttp.Register(r, svc) })
	return m
}
