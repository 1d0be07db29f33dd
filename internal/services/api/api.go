// Package api provides the HTTP API for the application
package api

import (
	"dap/internal/platform/config"
	"dap/internal/platform/logger"
	phttp "dap/internal/platform/net/http"
	"dap/internal/platform/net/middleware"
	"dap/internal/platform/store"

	"dap/internal/modkit"
	"dap/internal/modkit/httpkit"
	"dap/internal/modkit/module"
	"dap/internal/modkit/swaggerkit"

	actorsmod "dap/internal/services/actors/module"
	metamod "dap/internal/services/api/meta/module"
	auditmod "dap/internal/services/audit/module"
	catalogmod "dap/internal/services/catalog/module"
	changesmod "dap/internal/services/changes/module"
)

// Options are the API options
type Options struct {
	// Config is the root view, modules read their own prefixes from it
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	// CORSOrigins empty allows any origin
	CORSOrigins []string
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// liveness answers before any routing or logging
	r.Use(middleware.Heartbeat("/health"))

	// shared deps for modules
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
		Bus: opt.Store.Bus,
	}

	// audit and actors have no dependencies on other modules
	audit := auditmod.New(deps)
	sink := module.MustPortsOf[auditmod.Ports](audit).Sink
	actors := actorsmod.New(deps)

	// change sets need the actor directory to decide which sets persist
	changes := changesmod.New(deps, modkit.WithPorts(changesmod.Needs{
		Actors: module.MustPortsOf[actorsmod.Ports](actors).Directory,
		Audit:  sink,
	}))
	changePorts := module.MustPortsOf[changesmod.Ports](changes)

	// the catalog records into change sets and is the restore target for reverts
	catalog := catalogmod.New(deps, modkit.WithPorts(catalogmod.Needs{
		Changes: changePorts.Recorder,
		Audit:   sink,
	}))
	changePorts.Binder.BindEntities(module.MustPortsOf[catalogmod.Ports](catalog).Entities)

	mods := []module.Module{
		metamod.New(deps),
		audit,
		actors,
		changes,
		catalog,
	}

	stack := append(
		httpkit.CommonStack(httpkit.StackOptions{CORSOrigins: opt.CORSOrigins}),
		httpkit.Actors(httpkit.NewHeaderPort("")),
	)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
