// Package domain holds change set types, typed snapshots and ports
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// EntityKind discriminates which catalog entity a change item targets
type EntityKind string

const (
	// KindProduct is a catalog product
	KindProduct EntityKind = "Product"
	// KindSolution is a catalog solution
	KindSolution EntityKind = "Solution"
	// KindTask is a catalog task
	KindTask EntityKind = "Task"
)

// Kinds lists every revertible kind
var Kinds = []EntityKind{KindProduct, KindSolution, KindTask}

// Valid reports whether k is one of Kinds
func (k EntityKind) Valid() bool {
	switch k {
	case KindProduct, KindSolution, KindTask:
		return true
	}
	return false
}

// Topic is the notification subject announcing an updated entity of this kind
func (k EntityKind) Topic() string {
	return "catalog." + strings.ToLower(string(k)) + ".updated"
}

// ChangeSet is a logical unit of work owned by an actor
type ChangeSet struct {
	ID          string       `json:"id" example:"6c1f0b8e-0a4e-4b59-8b65-8a4f3c0f9a00"`
	UserID      *string      `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
	CommittedAt *time.Time   `json:"committed_at"`
	Items       []ChangeItem `json:"items"`
}

// Committed reports whether the set was finalized
func (c ChangeSet) Committed() bool { return c.CommittedAt != nil }

// ChangeItem is one recorded mutation inside a set
// Before is null for a create and After is null for a hard delete
type ChangeItem struct {
	ID          string          `json:"id"`
	ChangeSetID string          `json:"change_set_id"`
	EntityType  EntityKind      `json:"entity_type" example:"Product"`
	EntityID    string          `json:"entity_id"`
	Before      json.RawMessage `json:"before" swaggertype:"object"`
	After       json.RawMessage `json:"after" swaggertype:"object"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// RevertReport counts what a revert did per item
type RevertReport struct {
	ChangeSetID string `json:"change_set_id"`
	Restored    int    `json:"restored"`
	Failed      int    `json:"failed"`
	Skipped     int    `json:"skipped"`
}

// Total is the number of items the revert looked at
func (r RevertReport) Total() int { return r.Restored + r.Failed + r.Skipped }
