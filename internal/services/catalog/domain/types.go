// Package domain holds catalog entities, inputs and ports
package domain

import (
	"time"

	changesdom "dap/internal/services/changes/domain"
)

// Product is a catalog product
// json names double as the change snapshot keys
type Product struct {
	ID          string     `json:"id" example:"0f8c2b1a-5d7e-4b8e-9d3c-1a2b3c4d5e6f"`
	Name        string     `json:"name" example:"Edge Router"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// CursorID implements paging.Node
func (p Product) CursorID() string { return p.ID }

// CursorOrdering implements paging.Node
func (p Product) CursorOrdering() *time.Time { return ordering(p.CreatedAt) }

// Solution groups products, it has the same shape as Product
type Solution struct {
	ID          string     `json:"id"`
	Name        string     `json:"name" example:"Branch Office"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// CursorID implements paging.Node
func (s Solution) CursorID() string { return s.ID }

// CursorOrdering implements paging.Node
func (s Solution) CursorOrdering() *time.Time { return ordering(s.CreatedAt) }

// Task is a unit of adoption work owned by exactly one product or solution
type Task struct {
	ID             string     `json:"id"`
	ProductID      *string    `json:"product_id"`
	SolutionID     *string    `json:"solution_id"`
	Name           string     `json:"name" example:"Enable telemetry"`
	Description    *string    `json:"description"`
	EstMinutes     int        `json:"est_minutes" example:"30"`
	Weight         float64    `json:"weight" example:"12.5"`
	Notes          *string    `json:"notes"`
	Priority       *string    `json:"priority" example:"High"`
	SequenceNumber int        `json:"sequence_number" example:"1"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// CursorID implements paging.Node
func (t Task) CursorID() string { return t.ID }

// CursorOrdering implements paging.Node
func (t Task) CursorOrdering() *time.Time { return ordering(t.CreatedAt) }

// zero creation times ride the id only cursor form
func ordering(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// TaskScope narrows task lists to one parent, both nil lists every task
type TaskScope struct {
	ProductID  *string
	SolutionID *string
}

// MaxTaskWeight caps the summed weight of live tasks under one parent
const MaxTaskWeight = 100.0

// kind names used by change sets and audit rows
const (
	EntityProduct  = string(changesdom.KindProduct)
	EntitySolution = string(changesdom.KindSolution)
	EntityTask     = string(changesdom.KindTask)
)
