// @title         DAP API
// @version       0.1.0
// @description   Catalog endpoints with keyset pagination plus change set history and revert

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dap/db"
	"dap/internal/modkit/repokit"
	"dap/internal/platform/config"
	"dap/internal/platform/logger"
	phttp "dap/internal/platform/net/http"
	"dap/internal/platform/store"

	"dap/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	natsCfg := root.Prefix("SERVICE_NATS_")
	// bring up logging early
	l := logger.Get()

	// SIGINT or SIGTERM drains the http server, then the store closes
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "dap",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayBool("ENABLED", false),
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "dap",
				ClientTag:  "api",
			},
			NATS: store.NATSConfig{
				Enabled:        natsCfg.MayBool("ENABLED", false),
				URL:            natsCfg.MayString("URL", ""),
				ConnectTimeout: natsCfg.MayDuration("CONNECT_TIMEOUT", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// fail fast when an enabled backend does not answer
	repokit.MustGuard(ctx, st)

	// schema is idempotent, safe to apply on every boot
	if pgCfg.MayBool("MIGRATE", false) {
		if _, err := st.PG.Exec(ctx, db.Postgres); err != nil {
			l.Panic().Err(err).Msg("schema apply failed")
		}
		if st.CH != nil {
			rows, err := st.CH.Query(ctx, db.ClickhouseAudit)
			if err != nil {
				l.Panic().Err(err).Msg("audit table apply failed")
			}
			rows.Close()
		}
		l.Info().Msg("schema applied")
	}

	// http server (reads CORE_API_PORT, CORE_API_*_TIMEOUT, CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
