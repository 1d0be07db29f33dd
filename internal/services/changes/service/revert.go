package service

import (
	"context"
	"strings"

	"dap/internal/modkit/repokit"
	"dap/internal/platform/logger"
	"dap/internal/platform/pubsub"
	"dap/internal/services/changes/domain"
	"dap/internal/services/changes/repo"

	"github.com/google/uuid"
)

type outcome uint8

const (
	restored outcome = iota
	failed
	skipped
)

// Reverter restores the before images of a change set and then drops the set
// items are applied newest first so an entity touched twice ends at its oldest image
type Reverter struct {
	Repo     repo.Repo
	entities domain.EntityPort
	bus      pubsub.Publisher
	log      logger.Logger
}

// NewReverter creates a revert engine
// a nil bus disables notifications
func NewReverter(db repokit.TxRunner, binder repokit.Binder[repo.Repo], entities domain.EntityPort, bus pubsub.Publisher, log logger.Logger) *Reverter {
	if db == nil {
		panic("changes.Reverter requires a non nil TxRunner")
	}
	if binder == nil {
		panic("changes.Reverter requires a non nil Repo binder")
	}
	if entities == nil {
		panic("changes.Reverter requires a non nil EntityPort")
	}
	if bus == nil {
		bus = pubsub.Noop{}
	}
	return &Reverter{
		Repo:     binder.Bind(db),
		entities: entities,
		bus:      bus,
		log:      log.With().Str("component", "changes-revert").Logger(),
	}
}

// Revert undoes what can still be undone and always reports true
// a failure to drop the set is logged, RevertWithReport surfaces it
func (r *Reverter) Revert(ctx context.Context, id string) (bool, error) {
	if _, err := r.RevertWithReport(ctx, id); err != nil {
		r.log.Warn().Err(err).Str("change_set_id", id).Msg("changes: set kept after revert")
	}
	return true, nil
}

// RevertWithReport is Revert with per item counts and the set delete error
func (r *Reverter) RevertWithReport(ctx context.Context, id string) (domain.RevertReport, error) {
	rep := domain.RevertReport{ChangeSetID: id}
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return rep, nil
	}
	setID := uid.String()
	rep.ChangeSetID = setID

	items, err := r.Repo.Items(ctx, setID)
	if err != nil {
		r.log.Warn().Err(err).Str("change_set_id", setID).Msg("changes: load items failed, reverting nothing")
		items = nil
	}

	for i := len(items) - 1; i >= 0; i-- {
		switch r.restore(ctx, items[i]) {
		case restored:
			rep.Restored++
		case failed:
			rep.Failed++
		default:
			rep.Skipped++
		}
	}

	if _, err := r.Repo.Delete(ctx, setID); err != nil {
		return rep, err
	}
	r.log.Info().
		Str("change_set_id", setID).
		Int("restored", rep.Restored).
		Int("failed", rep.Failed).
		Int("skipped", rep.Skipped).
		Msg("changes: set reverted")
	return rep, nil
}

func (r *Reverter) restore(ctx context.Context, it repo.RowItem) outcome {
	kind := domain.EntityKind(it.EntityType)
	l := r.log.With().Str("item_id", it.ID).Str("entity_type", it.EntityType).Str("entity_id", it.EntityID).Logger()

	if !kind.Valid() {
		l.Warn().Msg("changes: no restore for entity type, skipping")
		return skipped
	}
	// a null before image is a create, there is nothing to go back to
	if domain.IsNullImage(it.Before) {
		return skipped
	}
	snap, err := domain.DecodeSnapshot(kind, it.Before)
	if err != nil {
		l.Warn().Err(err).Msg("changes: undecodable before image")
		return failed
	}
	if snap.Empty() {
		return skipped
	}
	// only the item that recorded the delete may bring the entity back
	if err := r.entities.Restore(ctx, it.EntityID, snap, domain.IsDeleteImage(it.After)); err != nil {
		l.Warn().Err(err).Msg("changes: restore failed")
		return failed
	}
	r.announce(ctx, kind, it.EntityID)
	return restored
}

// announce re-reads the entity and publishes it, every failure is swallowed
func (r *Reverter) announce(ctx context.Context, kind domain.EntityKind, id string) {
	v, err := r.entities.Load(ctx, kind, id)
	if err != nil {
		r.log.Debug().Err(err).Str("entity_id", id).Msg("changes: reload after restore failed")
		return
	}
	if err := pubsub.PublishJSON(ctx, r.bus, kind.Topic(), v); err != nil {
		r.log.Warn().Err(err).Str("topic", kind.Topic()).Msg("changes: publish failed")
	}
}
