package domain

// Handle is what Open returns, either a Persisted set or a NoOp stand in
// the interface is sealed so switches over it stay exhaustive
type Handle interface {
	SetID() string
	handle()
}

// Persisted wraps a stored change set
type Persisted struct{ Set ChangeSet }

// SetID implements Handle
func (p Persisted) SetID() string { return p.Set.ID }

func (Persisted) handle() {}

// NoOp stands in for a set that was never stored
// it still carries an id so callers can return it to clients
type NoOp struct{ ID string }

// SetID implements Handle
func (n NoOp) SetID() string { return n.ID }

func (NoOp) handle() {}

// IsPersisted reports whether h refers to a stored set
func IsPersisted(h Handle) bool {
	_, ok := h.(Persisted)
	return ok
}
