package store

import (
	"context"
	"time"

	"dap/internal/platform/pubsub"
	chx "dap/internal/platform/store/ch"
	"dap/internal/platform/store/pg"
)

// openPG dials the pool, waits for it to answer, then publishes the traced runner
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	pool, err := pg.Open(ctx, pg.Config{URL: cfg.PG.URL, MaxConns: cfg.PG.MaxConns})
	if err != nil {
		return nil, err
	}
	// ping the pool directly so readiness probes stay out of the sql log
	if err := pg.WaitReady(ctx, pool, pg.DefaultBackoff); err != nil {
		pool.Close()
		return nil, err
	}

	var tracer pg.Tracer
	if cfg.PG.LogSQL {
		tracer = pg.NewLogTracer(s.Log, time.Duration(cfg.PG.SlowQueryMs)*time.Millisecond)
	}
	return newPGRunner(pool, tracer), nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	name := cfg.CH.ClientName
	if name == "" {
		name = cfg.AppName
	}
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: name,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openNATS(ctx context.Context, cfg Config, s *Store) (*pubsub.NATS, error) {
	return pubsub.Connect(ctx, pubsub.Config{
		URL:            cfg.NATS.URL,
		Name:           cfg.AppName,
		ConnectTimeout: cfg.NATS.ConnectTimeout,
	}, s.Log)
}
