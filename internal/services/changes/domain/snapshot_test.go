package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeSnapshot_PresenceAware(t *testing.T) {
	t.Parallel()

	s, err := DecodeSnapshot(KindProduct, []byte(`{"id":"p1","name":"A","created_at":"2024-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	p, ok := s.(ProductSnapshot)
	if !ok {
		t.Fatalf("expected ProductSnapshot got %T", s)
	}
	if !p.Name.Set || p.Name.Value != "A" {
		t.Fatalf("name = %+v", p.Name)
	}
	if p.Description.Set {
		t.Fatal("absent description must not be marked present")
	}
}

func TestDecodeSnapshot_NullIsPresent(t *testing.T) {
	t.Parallel()

	s, err := DecodeSnapshot(KindTask, []byte(`{"notes":null,"weight":1.5,"est_minutes":30}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	ts := s.(TaskSnapshot)
	if !ts.Notes.Set || ts.Notes.Value != nil {
		t.Fatalf("notes should be present and nil, got %+v", ts.Notes)
	}
	if ts.Weight.Value != 1.5 || ts.EstMinutes.Value != 30 || ts.Name.Set {
		t.Fatalf("unexpected task snapshot %+v", ts)
	}
	if ts.Empty() {
		t.Fatal("snapshot with fields is not empty")
	}
}

func TestDecodeSnapshot_UnknownKindAndBadJSON(t *testing.T) {
	t.Parallel()

	if _, err := DecodeSnapshot("Customer", []byte(`{}`)); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := DecodeSnapshot(KindSolution, []byte(`{"name":`)); err == nil {
		t.Fatal("expected decode error")
	}
	s, err := DecodeSnapshot(KindSolution, []byte(`{}`))
	if err != nil || !s.Empty() {
		t.Fatalf("empty object should give empty snapshot, got %+v err=%v", s, err)
	}
}

func TestField_MarshalOmitsAbsent(t *testing.T) {
	t.Parallel()

	d := "d"
	b, err := json.Marshal(ProductSnapshot{Name: Some("A")})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"name":"A"}` {
		t.Fatalf("got %s", b)
	}
	b, _ = json.Marshal(ProductSnapshot{Description: Some(&d)})
	if string(b) != `{"description":"d"}` {
		t.Fatalf("got %s", b)
	}
}

func TestKindTopicAndValid(t *testing.T) {
	t.Parallel()

	cases := map[EntityKind]string{
		KindProduct:  "catalog.product.updated",
		KindSolution: "catalog.solution.updated",
		KindTask:     "catalog.task.updated",
	}
	for k, want := range cases {
		if !k.Valid() || k.Topic() != want {
			t.Fatalf("%s: valid=%v topic=%s", k, k.Valid(), k.Topic())
		}
	}
	if EntityKind("Outcome").Valid() {
		t.Fatal("Outcome is not revertible")
	}
}

func TestHandle_Sealed(t *testing.T) {
	t.Parallel()

	var h Handle = NoOp{ID: "x"}
	if IsPersisted(h) || h.SetID() != "x" {
		t.Fatalf("noop handle: %+v", h)
	}
	h = Persisted{Set: ChangeSet{ID: "y"}}
	if !IsPersisted(h) || h.SetID() != "y" {
		t.Fatalf("persisted handle: %+v", h)
	}
}

func TestIsNullImage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", " null ", "null"} {
		if !IsNullImage([]byte(raw)) {
			t.Fatalf("%q should be null", raw)
		}
	}
	if IsNullImage([]byte(`{}`)) {
		t.Fatal("empty object is not null")
	}
}

func TestIsDeleteImage(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		``:                                      false,
		`null`:                                  false,
		`{"name":"x"}`:                          false,
		`{"deleted_at":null}`:                   false,
		`[1,2]`:                                 false,
		`{"deleted_at":"2026-03-01T10:00:00Z"}`: true,
	}
	for raw, want := range cases {
		if got := IsDeleteImage([]byte(raw)); got != want {
			t.Fatalf("IsDeleteImage(%q) = %v want %v", raw, got, want)
		}
	}
}
