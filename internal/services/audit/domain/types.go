// Package domain holds audit log types and ports
package domain

import (
	"context"
	"time"
)

// Action names what happened
type Action string

// Actions recorded by the catalog and change set modules
const (
	ActionCreateProduct  Action = "CREATE_PRODUCT"
	ActionUpdateProduct  Action = "UPDATE_PRODUCT"
	ActionDeleteProduct  Action = "DELETE_PRODUCT"
	ActionCreateSolution Action = "CREATE_SOLUTION"
	ActionUpdateSolution Action = "UPDATE_SOLUTION"
	ActionDeleteSolution Action = "DELETE_SOLUTION"
	ActionCreateTask     Action = "CREATE_TASK"
	ActionUpdateTask     Action = "UPDATE_TASK"
	ActionDeleteTask     Action = "DELETE_TASK"

	ActionBeginChangeSet  Action = "BEGIN_CHANGE_SET"
	ActionCommitChangeSet Action = "COMMIT_CHANGE_SET"
	ActionRevertChangeSet Action = "REVERT_CHANGE_SET"
	ActionUndoChangeSet   Action = "UNDO_CHANGE_SET"
)

// Entry is one append only audit record
type Entry struct {
	Action    Action         `json:"action" example:"UPDATE_PRODUCT"`
	Entity    string         `json:"entity" example:"Product"`
	EntityID  string         `json:"entity_id"`
	UserID    *string        `json:"user_id"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

// Sink appends entries, it never fails the caller
type Sink interface {
	Log(ctx context.Context, e Entry)
}

// ServicePort is the audit contract
type ServicePort interface {
	Sink
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Discard is a Sink that drops everything
type Discard struct{}

// Log implements Sink
func (Discard) Log(context.Context, Entry) {}
