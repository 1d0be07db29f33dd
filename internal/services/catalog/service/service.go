// Package service contains catalog mutations, paged queries and change restore
package service

import (
	"context"
	"strings"

	"dap/internal/core/paging"
	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	"dap/internal/platform/logger"
	"dap/internal/platform/pubsub"
	auditdom "dap/internal/services/audit/domain"
	"dap/internal/services/catalog/domain"
	"dap/internal/services/catalog/repo"
	changesdom "dap/internal/services/changes/domain"

	"github.com/google/uuid"
)

// Service is the catalog service contract
type Service interface{ domain.ServicePort }

// Options tune the catalog service
type Options struct {
	Page paging.Options
	// AtomicChanges records change items inside the mutation transaction
	// so a failed record aborts the write, otherwise recording is best effort
	AtomicChanges bool
}

// Deps are the collaborators the catalog reports to
// nil fields fall back to no-op implementations
type Deps struct {
	Changes changesdom.Recorder
	Audit   auditdom.Sink
	Bus     pubsub.Publisher
}

// Svc implements Service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	changes changesdom.Recorder
	audit   auditdom.Sink
	bus     pubsub.Publisher
	pager   *paging.Pager
	opt     Options
	log     logger.Logger
}

// New creates a catalog service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], deps Deps, opt Options, log logger.Logger) *Svc {
	if db == nil {
		panic("catalog.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("catalog.Service requires a non nil Repo binder")
	}
	if deps.Changes == nil {
		deps.Changes = noRecorder{}
	}
	if deps.Audit == nil {
		deps.Audit = auditdom.Discard{}
	}
	if deps.Bus == nil {
		deps.Bus = pubsub.Noop{}
	}
	l := log.With().Str("component", "catalog").Logger()
	return &Svc{
		Repo:    binder.Bind(db),
		binder:  binder,
		db:      db,
		changes: deps.Changes,
		audit:   deps.Audit,
		bus:     deps.Bus,
		pager:   paging.New(opt.Page, l),
		opt:     opt,
		log:     l,
	}
}

// canonical parses id as a uuid, anything else can never match a row
func canonical(kind, id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", perr.NotFoundf("%s %s not found", strings.ToLower(kind), id)
	}
	return u.String(), nil
}

// mutate runs fn in a transaction and records before and after under one change set
func (s *Svc) mutate(ctx context.Context, actor *string, kind changesdom.EntityKind, id string, fn func(r repo.Repo) (before, after any, err error)) error {
	h := s.changes.Open(ctx, actor)
	var before, after any
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		var err error
		before, after, err = fn(s.binder.Bind(q))
		if err != nil {
			return err
		}
		if s.opt.AtomicChanges {
			return s.changes.RecordTx(ctx, q, h, kind, id, before, after)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !s.opt.AtomicChanges {
		s.changes.Record(ctx, h, kind, id, before, after)
	}
	return nil
}

func (s *Svc) record(ctx context.Context, a auditdom.Action, entity, id string, actor *string, details map[string]any) {
	s.audit.Log(ctx, auditdom.Entry{Action: a, Entity: entity, EntityID: id, UserID: actor, Details: details})
}

// announce publishes the entity on its kind topic, failures are logged only
func (s *Svc) announce(ctx context.Context, kind changesdom.EntityKind, v any) {
	if err := pubsub.PublishJSON(ctx, s.bus, kind.Topic(), v); err != nil {
		s.log.Warn().Err(err).Str("topic", kind.Topic()).Msg("catalog notify failed")
	}
}

// noRecorder is used when no change set manager is wired
type noRecorder struct{}

func (noRecorder) Open(context.Context, *string) changesdom.Handle {
	return changesdom.NoOp{ID: uuid.NewString()}
}

func (noRecorder) Record(context.Context, changesdom.Handle, changesdom.EntityKind, string, any, any) {}

func (noRecorder) RecordTx(context.Context, repokit.Queryer, changesdom.Handle, changesdom.EntityKind, string, any, any) error {
	return nil
}

// source adapts repo lookups to paging.Source
type source[T paging.Node] struct {
	find  func(ctx context.Context, q paging.Query) ([]T, error)
	count func(ctx context.Context) (int, error)
}

func (s source[T]) Find(ctx context.Context, q paging.Query) ([]T, error) { return s.find(ctx, q) }
func (s source[T]) Count(ctx context.Context) (int, error)                 { return s.count(ctx) }

func mapRows[R, T any](rows []R, fn func(R) T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out
}
