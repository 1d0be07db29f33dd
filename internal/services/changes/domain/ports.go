package domain

import (
	"context"

	"dap/internal/modkit/repokit"
)

// EntityPort is implemented by the module that owns the entities
type EntityPort interface {
	// Restore writes only the present fields of s onto the entity
	// revive clears a soft delete, otherwise a missing or deleted entity yields a not found error
	Restore(ctx context.Context, id string, s Snapshot, revive bool) error
	// Load re-reads the entity so it can be announced
	Load(ctx context.Context, kind EntityKind, id string) (any, error)
}

// ActorDirectory answers whether an actor id is a persisted user
type ActorDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Recorder is what mutating modules use to capture undoable changes
type Recorder interface {
	Open(ctx context.Context, actorID *string) Handle
	Record(ctx context.Context, h Handle, kind EntityKind, entityID string, before, after any)
	// RecordTx records inside the caller's transaction and returns the error so it can abort
	RecordTx(ctx context.Context, q repokit.Queryer, h Handle, kind EntityKind, entityID string, before, after any) error
}

// ServicePort is the full changes contract served over http
type ServicePort interface {
	Recorder
	Commit(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]ChangeSet, error)
	Get(ctx context.Context, id string) (ChangeSet, error)
	Undo(ctx context.Context, id string) error
	Revert(ctx context.Context, id string) (bool, error)
	RevertWithReport(ctx context.Context, id string) (RevertReport, error)
}
