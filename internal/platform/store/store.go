// Package store opens the Postgres, ClickHouse and NATS backends behind small seams
package store

import (
	"context"
	"errors"
	"fmt"

	"dap/internal/platform/logger"
	"dap/internal/platform/pubsub"
)

// Store holds the opened backends, a disabled one stays nil except Bus which falls back to pubsub.Noop
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
	Bus pubsub.Publisher
}

type Option func(*Store) error

// WithLogger is handed to the NATS client and the SQL tracer
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open brings up every backend enabled in cfg in order pg, ch, nats
// a failure closes whatever was already open
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Bus = pubsub.Noop{}

	fail := func(err error) (*Store, error) {
		_ = s.Close(ctx)
		return nil, err
	}
	if cfg.PG.Enabled {
		pg, err := openPG(ctx, cfg, s)
		if err != nil {
			return fail(err)
		}
		s.PG = pg
	}
	if cfg.CH.Enabled {
		ch, err := openCH(ctx, cfg, s)
		if err != nil {
			return fail(err)
		}
		s.CH = ch
	}
	if cfg.NATS.Enabled {
		bus, err := openNATS(ctx, cfg, s)
		if err != nil {
			return fail(err)
		}
		s.Bus = bus
	}
	return s, nil
}

type backend struct {
	name string
	v    any
}

// backends lists the set seams in open order
func (s *Store) backends() []backend {
	var out []backend
	if s.PG != nil {
		out = append(out, backend{"pg", s.PG})
	}
	if s.CH != nil {
		out = append(out, backend{"ch", s.CH})
	}
	if s.Bus != nil {
		out = append(out, backend{"nats", s.Bus})
	}
	return out
}

// Guard pings every backend that can be pinged and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, b := range s.backends() {
		p, ok := b.v.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close shuts backends down in reverse open order
func (s *Store) Close(context.Context) error {
	var errs []error
	bs := s.backends()
	for i := len(bs) - 1; i >= 0; i-- {
		if c, ok := bs[i].v.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", bs[i].name, err))
			}
		}
	}
	return errors.Join(errs...)
}
