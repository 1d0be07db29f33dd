// Package service contains the change set manager and revert engine
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"

	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	"dap/internal/platform/logger"
	"dap/internal/services/changes/domain"
	"dap/internal/services/changes/repo"

	"github.com/google/uuid"
)

// Service is the changes service contract
type Service interface{ domain.ServicePort }

// Options tunes list sizes
type Options struct {
	ListDefault int // default 50
	ListMax     int // default 200
}

func (o Options) withDefaults() Options {
	if o.ListDefault <= 0 {
		o.ListDefault = 50
	}
	if o.ListMax <= 0 {
		o.ListMax = 200
	}
	if o.ListDefault > o.ListMax {
		o.ListDefault = o.ListMax
	}
	return o
}

// Manager opens, records, commits and lists change sets
// reverts are delegated to the Reverter bound with BindReverter
type Manager struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	actors domain.ActorDirectory
	log    logger.Logger
	opt    Options

	newID func() string
	rev   atomic.Pointer[Reverter]
}

var _ Service = (*Manager)(nil)

// New creates a change set manager
// a nil actors directory makes every set a no op
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], actors domain.ActorDirectory, opt Options, log logger.Logger) *Manager {
	if db == nil {
		panic("changes.Manager requires a non nil TxRunner")
	}
	if binder == nil {
		panic("changes.Manager requires a non nil Repo binder")
	}
	return &Manager{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		actors: actors,
		log:    log.With().Str("component", "changes").Logger(),
		opt:    opt.withDefaults(),
		newID:  func() string { return uuid.NewString() },
	}
}

// BindReverter attaches the revert engine, safe to call after routes are mounted
func (m *Manager) BindReverter(r *Reverter) { m.rev.Store(r) }

// Open starts a change set for actorID
// anything short of a stored row for a known user yields a NoOp handle, errors are logged not returned
func (m *Manager) Open(ctx context.Context, actorID *string) domain.Handle {
	id := m.newID()
	noop := domain.NoOp{ID: id}

	if actorID == nil || strings.TrimSpace(*actorID) == "" {
		return noop
	}
	uid, err := uuid.Parse(strings.TrimSpace(*actorID))
	if err != nil {
		m.log.Debug().Str("actor_id", *actorID).Msg("changes: actor is not a user id, using noop set")
		return noop
	}
	user := uid.String()
	if m.actors == nil {
		return noop
	}
	ok, err := m.actors.Exists(ctx, user)
	if err != nil {
		m.log.Warn().Err(err).Str("actor_id", user).Msg("changes: actor lookup failed, using noop set")
		return noop
	}
	if !ok {
		m.log.Debug().Str("actor_id", user).Msg("changes: unknown actor, using noop set")
		return noop
	}

	row, err := m.Repo.InsertSet(ctx, id, &user)
	if err != nil {
		m.log.Error().Err(err).Str("change_set_id", id).Msg("changes: persist set failed, using noop set")
		return noop
	}
	return domain.Persisted{Set: toSet(row, nil)}
}

// Record captures a before and after image, failures are logged and swallowed
func (m *Manager) Record(ctx context.Context, h domain.Handle, kind domain.EntityKind, entityID string, before, after any) {
	if err := m.record(ctx, m.Repo, h, kind, entityID, before, after); err != nil {
		m.log.Error().Err(err).
			Str("change_set_id", h.SetID()).
			Str("entity_type", string(kind)).
			Str("entity_id", entityID).
			Msg("changes: record item failed")
	}
}

// RecordTx is Record inside the caller's transaction, the error aborts it
func (m *Manager) RecordTx(ctx context.Context, q repokit.Queryer, h domain.Handle, kind domain.EntityKind, entityID string, before, after any) error {
	return m.record(ctx, m.binder.Bind(q), h, kind, entityID, before, after)
}

func (m *Manager) record(ctx context.Context, r repo.Repo, h domain.Handle, kind domain.EntityKind, entityID string, before, after any) error {
	p, ok := h.(domain.Persisted)
	if !ok {
		return nil
	}
	b, err := image(before)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode before image")
	}
	a, err := image(after)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode after image")
	}
	return r.InsertItem(ctx, repo.RowItem{
		ChangeSetID: p.Set.ID,
		EntityType:  string(kind),
		EntityID:    entityID,
		Before:      b,
		After:       a,
	})
}

// image encodes a snapshot, nil and json null both become nil
func image(v any) ([]byte, error) {
	var b []byte
	switch x := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		b = x
	case []byte:
		b = x
	default:
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		b = enc
	}
	if domain.IsNullImage(b) {
		return nil, nil
	}
	if !json.Valid(b) {
		return nil, errors.New("image is not valid json")
	}
	return b, nil
}

// Commit stamps the set as committed, unknown or noop ids succeed quietly
func (m *Manager) Commit(ctx context.Context, id string) error {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil
	}
	found, err := m.Repo.Commit(ctx, uid.String())
	if err != nil {
		return err
	}
	if !found {
		m.log.Debug().Str("change_set_id", id).Msg("changes: commit of unknown set ignored")
	}
	return nil
}

// List returns the newest sets with their items
func (m *Manager) List(ctx context.Context, limit int) ([]domain.ChangeSet, error) {
	if limit <= 0 {
		limit = m.opt.ListDefault
	}
	if limit > m.opt.ListMax {
		limit = m.opt.ListMax
	}
	rows, err := m.Repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	items, err := m.Repo.Items(ctx, ids...)
	if err != nil {
		return nil, err
	}
	bySet := make(map[string][]repo.RowItem, len(rows))
	for _, it := range items {
		bySet[it.ChangeSetID] = append(bySet[it.ChangeSetID], it)
	}
	out := make([]domain.ChangeSet, 0, len(rows))
	for _, r := range rows {
		out = append(out, toSet(r, bySet[r.ID]))
	}
	return out, nil
}

// Get returns one set with its items
func (m *Manager) Get(ctx context.Context, id string) (domain.ChangeSet, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return domain.ChangeSet{}, perr.NotFoundf("change set %s not found", id)
	}
	row, err := m.Repo.Get(ctx, uid.String())
	if err != nil {
		return domain.ChangeSet{}, err
	}
	items, err := m.Repo.Items(ctx, row.ID)
	if err != nil {
		return domain.ChangeSet{}, err
	}
	return toSet(row, items), nil
}

// Undo discards a set and its items without touching the entities
func (m *Manager) Undo(ctx context.Context, id string) error {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil
	}
	found, err := m.Repo.Delete(ctx, uid.String())
	if err != nil {
		return err
	}
	if found {
		m.log.Info().Str("change_set_id", id).Msg("changes: set discarded")
	}
	return nil
}

// Revert implements domain.ServicePort through the bound Reverter
func (m *Manager) Revert(ctx context.Context, id string) (bool, error) {
	r := m.rev.Load()
	if r == nil {
		return false, perr.Unavailablef("revert engine not wired")
	}
	return r.Revert(ctx, id)
}

// RevertWithReport implements domain.ServicePort through the bound Reverter
func (m *Manager) RevertWithReport(ctx context.Context, id string) (domain.RevertReport, error) {
	r := m.rev.Load()
	if r == nil {
		return domain.RevertReport{ChangeSetID: id}, perr.Unavailablef("revert engine not wired")
	}
	return r.RevertWithReport(ctx, id)
}

func toSet(r repo.RowSet, items []repo.RowItem) domain.ChangeSet {
	out := domain.ChangeSet{
		ID:          r.ID,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
		CommittedAt: r.CommittedAt,
		Items:       make([]domain.ChangeItem, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, toItem(it))
	}
	return out
}

func toItem(it repo.RowItem) domain.ChangeItem {
	return domain.ChangeItem{
		ID:          it.ID,
		ChangeSetID: it.ChangeSetID,
		EntityType:  domain.EntityKind(it.EntityType),
		EntityID:    it.EntityID,
		Before:      json.RawMessage(it.Before),
		After:       json.RawMessage(it.After),
		RecordedAt:  it.RecordedAt,
	}
}
