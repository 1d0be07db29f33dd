// Package module wires the meta endpoints into the API
package module

import (
	"context"
	"time"

	"dap/internal/core/version"
	modkit "dap/internal/modkit"
	"dap/internal/modkit/httpkit"

	metahttp "dap/internal/services/api/meta/http"
)

type pinger interface {
	Ping(context.Context) error
}

// Ports reports when the process came up
type Ports struct {
	Started time.Time
}

type Module struct {
	modkit.Base
	ports Ports
}

// New probes PG as required, ClickHouse and NATS as optional
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build("meta", "/meta", opts...), ports: Ports{Started: time.Now()}}
	d := metahttp.Deps{
		Service: version.Service,
		Started: m.ports.Started,
		Checks: []metahttp.Check{
			{Name: "pg", Required: true, Ping: probe(deps.PG)},
			{Name: "ch", Ping: probe(deps.CH)},
			{Name: "nats", Ping: probe(deps.Bus)},
		},
		Timeout: deps.Cfg.MayDuration("META_READY_TIMEOUT", 2*time.Second),
	}
	m.Routes(func(r httpkit.Router) { metahttp.Register(r, d) })
	return m
}

func (m *Module) Ports() any { return m.ports }

// probe is nil for backends that cannot be pinged, they report skipped
func probe(v any) func(context.Context) error {
	if p, ok := v.(pinger); ok && p != nil {
		return p.Ping
	}
	return nil
}
