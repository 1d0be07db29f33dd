// Package modkit builds API modules from shared deps and options
package modkit

import (
	"dap/internal/modkit/module"
	"dap/internal/modkit/repokit"
	"dap/internal/platform/config"
	"dap/internal/platform/logger"
	"dap/internal/platform/pubsub"
	"dap/internal/platform/store"
)

type Module = module.Module

// Deps are the shared backends handed to every module constructor
// CH is nil when ClickHouse is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	Bus pubsub.Publisher
}
