package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	"dap/internal/services/changes/domain"
	"dap/internal/services/changes/repo"

	"github.com/rs/zerolog"
)

// memRepo is an in memory repo.Repo with cascade delete
type memRepo struct {
	mu     sync.Mutex
	sets   map[string]repo.RowSet
	items  []repo.RowItem
	clock  time.Time
	writes int

	insertSetErr error
	itemsErr     error
	deleteErr    error
}

func newMemRepo() *memRepo {
	return &memRepo{sets: map[string]repo.RowSet{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *memRepo) InsertSet(_ context.Context, id string, userID *string) (repo.RowSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertSetErr != nil {
		return repo.RowSet{}, m.insertSetErr
	}
	m.writes++
	s := repo.RowSet{ID: id, UserID: userID, CreatedAt: m.tick()}
	m.sets[id] = s
	return s, nil
}

func (m *memRepo) InsertItem(_ context.Context, it repo.RowItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sets[it.ChangeSetID]; !ok {
		return perr.Newf(perr.ErrorCodeDB, "no change set %s", it.ChangeSetID)
	}
	m.writes++
	it.ID = "item-" + strconv.Itoa(len(m.items))
	it.RecordedAt = m.tick()
	m.items = append(m.items, it)
	return nil
}

func (m *memRepo) Commit(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[id]
	if !ok {
		return false, nil
	}
	m.writes++
	now := m.tick()
	s.CommittedAt = &now
	m.sets[id] = s
	return true, nil
}

func (m *memRepo) List(_ context.Context, limit int) ([]repo.RowSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repo.RowSet, 0, len(m.sets))
	for _, s := range m.sets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id string) (repo.RowSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[id]
	if !ok {
		return repo.RowSet{}, perr.NotFoundf("change set %s not found", id)
	}
	return s, nil
}

func (m *memRepo) Items(_ context.Context, setIDs ...string) ([]repo.RowItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	want := map[string]bool{}
	for _, id := range setIDs {
		want[id] = true
	}
	var out []repo.RowItem
	for _, it := range m.items {
		if want[it.ChangeSetID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	if _, ok := m.sets[id]; !ok {
		return false, nil
	}
	m.writes++
	delete(m.sets, id)
	kept := m.items[:0]
	for _, it := range m.items {
		if it.ChangeSetID != id {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return true, nil
}

func (m *memRepo) binder() repokit.Binder[repo.Repo] {
	return repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
}

type fakeTx struct{ repokit.TxRunner }

type fakeActors struct {
	known map[string]bool
	err   error
}

func (f fakeActors) Exists(_ context.Context, id string) (bool, error) { return f.known[id], f.err }

// product is the fake entity state the restore port writes to
type product struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type fakeEntities struct {
	mu       sync.Mutex
	products map[string]*product
	restores []string
	revived  []string
	loadErr  error
}

func (f *fakeEntities) Restore(_ context.Context, id string, s domain.Snapshot, revive bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ps, ok := s.(domain.ProductSnapshot)
	if !ok {
		return errors.New("only products in this fake")
	}
	p, ok := f.products[id]
	if !ok {
		return perr.NotFoundf("product %s not found", id)
	}
	if ps.Name.Set {
		p.Name = ps.Name.Value
	}
	if ps.Description.Set {
		p.Description = ps.Description.Value
	}
	f.restores = append(f.restores, id)
	if revive {
		f.revived = append(f.revived, id)
	}
	return nil
}

func (f *fakeEntities) Load(_ context.Context, _ domain.EntityKind, id string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, perr.NotFoundf("product %s not found", id)
	}
	cp := *p
	return cp, nil
}

type published struct {
	topic   string
	payload string
}

type recBus struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (b *recBus) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, published{topic: topic, payload: string(payload)})
	return b.err
}

const (
	userID    = "3f2b6a2e-3b1c-4a53-9d55-1f7f1b7e2c11"
	productID = "0b7f6a0c-8f1e-4c8e-9d27-5e9c1a7b2d10"
)

type harness struct {
	repo     *memRepo
	entities *fakeEntities
	bus      *recBus
	mgr      *Manager
	rev      *Reverter
}

func newHarness() *harness {
	r := newMemRepo()
	ents := &fakeEntities{products: map[string]*product{}}
	bus := &recBus{}
	nop := zerolog.Nop()
	m := New(fakeTx{}, r.binder(), fakeActors{known: map[string]bool{userID: true}}, Options{}, nop)
	rev := NewReverter(fakeTx{}, r.binder(), ents, bus, nop)
	m.BindReverter(rev)
	return &harness{repo: r, entities: ents, bus: bus, mgr: m, rev: rev}
}

func strp(s string) *string { return &s }
