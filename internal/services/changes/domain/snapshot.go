package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a snapshot names a kind outside Kinds
var ErrUnknownKind = errors.New("changes: unknown entity kind")

// Field is a snapshot value that remembers whether the key was present
// a present null decodes to Set with the zero Value
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a present field
func Some[T any](v T) Field[T] { return Field[T]{Value: v, Set: true} }

// UnmarshalJSON marks the field present, encoding/json calls it for null too
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// MarshalJSON encodes the value, pair with omitzero to drop absent fields
func (f Field[T]) MarshalJSON() ([]byte, error) { return json.Marshal(f.Value) }

// IsZero reports absence for omitzero
func (f Field[T]) IsZero() bool { return !f.Set }

// Snapshot is the restorable subset of one entity kind
// the set of implementations is closed: Product, Solution and Task snapshots
type Snapshot interface {
	Kind() EntityKind
	// Empty reports that no restorable field was captured
	Empty() bool
}

// ProductSnapshot holds restorable product fields
type ProductSnapshot struct {
	Name        Field[string]  `json:"name,omitzero"`
	Description Field[*string] `json:"description,omitzero"`
}

// Kind implements Snapshot
func (ProductSnapshot) Kind() EntityKind { return KindProduct }

// Empty implements Snapshot
func (s ProductSnapshot) Empty() bool { return !s.Name.Set && !s.Description.Set }

// SolutionSnapshot holds restorable solution fields
type SolutionSnapshot struct {
	Name        Field[string]  `json:"name,omitzero"`
	Description Field[*string] `json:"description,omitzero"`
}

// Kind implements Snapshot
func (SolutionSnapshot) Kind() EntityKind { return KindSolution }

// Empty implements Snapshot
func (s SolutionSnapshot) Empty() bool { return !s.Name.Set && !s.Description.Set }

// TaskSnapshot holds restorable task fields
type TaskSnapshot struct {
	Name           Field[string]  `json:"name,omitzero"`
	Description    Field[*string] `json:"description,omitzero"`
	EstMinutes     Field[int]     `json:"est_minutes,omitzero"`
	Weight         Field[float64] `json:"weight,omitzero"`
	Notes          Field[*string] `json:"notes,omitzero"`
	Priority       Field[*string] `json:"priority,omitzero"`
	SequenceNumber Field[int]     `json:"sequence_number,omitzero"`
}

// Kind implements Snapshot
func (TaskSnapshot) Kind() EntityKind { return KindTask }

// Empty implements Snapshot
func (s TaskSnapshot) Empty() bool {
	return !s.Name.Set && !s.Description.Set && !s.EstMinutes.Set && !s.Weight.Set &&
		!s.Notes.Set && !s.Priority.Set && !s.SequenceNumber.Set
}

// DecodeSnapshot parses a recorded before or after image into the kind's snapshot
// keys that are not restorable for the kind are ignored
func DecodeSnapshot(kind EntityKind, raw []byte) (Snapshot, error) {
	switch kind {
	case KindProduct:
		return decode[ProductSnapshot](raw)
	case KindSolution:
		return decode[SolutionSnapshot](raw)
	case KindTask:
		return decode[TaskSnapshot](raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decode[T Snapshot](raw []byte) (Snapshot, error) {
	var s T
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("changes: decode %s snapshot: %w", s.Kind(), err)
	}
	return s, nil
}

// IsNullImage reports whether a recorded image is absent or json null
func IsNullImage(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// IsDeleteImage reports whether an after image records a soft delete,
// that is an object carrying a non null deleted_at
func IsDeleteImage(raw []byte) bool {
	if IsNullImage(raw) {
		return false
	}
	var v struct {
		DeletedAt *json.RawMessage `json:"deleted_at"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v.DeletedAt != nil && !IsNullImage(*v.DeletedAt)
}
