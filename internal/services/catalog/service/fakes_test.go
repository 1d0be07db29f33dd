package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"dap/internal/core/cursor"
	"dap/internal/core/paging"
	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	auditdom "dap/internal/services/audit/domain"
	"dap/internal/services/catalog/repo"
	changesdom "dap/internal/services/changes/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memRepo is an in memory repo.Repo that mirrors the sql filters and keyset order
type memRepo struct {
	mu    sync.Mutex
	named map[repo.Table]map[string]repo.RowNamed
	tasks map[string]repo.RowTask
	clock time.Time

	finds []paging.Query
}

func newMemRepo() *memRepo {
	return &memRepo{
		named: map[repo.Table]map[string]repo.RowNamed{repo.Products: {}, repo.Solutions: {}},
		tasks: map[string]repo.RowTask{},
		clock: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// snapshot and rollback back the fake transaction
func (m *memRepo) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	named := map[repo.Table]map[string]repo.RowNamed{}
	for t, rows := range m.named {
		named[t] = maps.Clone(rows)
	}
	tasks := maps.Clone(m.tasks)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.named, m.tasks = named, tasks
	}
}

func keyCmp(at time.Time, id string, p *cursor.Position) int {
	if p.Ordering != nil {
		if c := at.Compare(*p.Ordering); c != 0 {
			return c
		}
	}
	switch {
	case id < p.ID:
		return -1
	case id > p.ID:
		return 1
	}
	return 0
}

func page[T any](rows []T, key func(T) (time.Time, string), q paging.Query) []T {
	var out []T
	for _, r := range rows {
		at, id := key(r)
		if q.After != nil && keyCmp(at, id, q.After) <= 0 {
			continue
		}
		if q.Before != nil && keyCmp(at, id, q.Before) >= 0 {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)
		c := at.Compare(bt)
		if c == 0 {
			c = cmpString(aid, bid)
		}
		if q.Order == paging.Desc {
			return -c
		}
		return c
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func namedKey(r repo.RowNamed) (time.Time, string) { return r.CreatedAt, r.ID }
func taskKey(r repo.RowTask) (time.Time, string)   { return r.CreatedAt, r.ID }

func (m *memRepo) liveNamed(t repo.Table) []repo.RowNamed {
	var out []repo.RowNamed
	for _, r := range m.named[t] {
		if r.DeletedAt == nil {
			out = append(out, r)
		}
	}
	return out
}

func (m *memRepo) FindNamed(_ context.Context, t repo.Table, q paging.Query) ([]repo.RowNamed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds = append(m.finds, q)
	return page(m.liveNamed(t), namedKey, q), nil
}

func (m *memRepo) CountNamed(_ context.Context, t repo.Table) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.liveNamed(t)), nil
}

func (m *memRepo) GetNamed(_ context.Context, t repo.Table, id string) (repo.RowNamed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.named[t][id]
	if !ok || r.DeletedAt != nil {
		return repo.RowNamed{}, perr.NotFoundf("%s %s not found", t, id)
	}
	return r, nil
}

func (m *memRepo) InsertNamed(_ context.Context, t repo.Table, name string, description *string) (repo.RowNamed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	r := repo.RowNamed{ID: uuid.NewString(), Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	m.named[t][r.ID] = r
	return r, nil
}

func (m *memRepo) UpdateNamed(_ context.Context, t repo.Table, id string, p repo.Patch) (repo.RowNamed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.named[t][id]
	if !ok || (r.DeletedAt != nil && !p.Undelete) {
		return repo.RowNamed{}, perr.NotFoundf("%s %s not found", t, id)
	}
	if v, ok := p.Value("name"); ok {
		r.Name = v.(string)
	}
	if v, ok := p.Value("description"); ok {
		r.Description = v.(*string)
	}
	if p.Undelete {
		r.DeletedAt = nil
	}
	r.UpdatedAt = m.tick()
	m.named[t][id] = r
	return r, nil
}

func (m *memRepo) SoftDeleteNamed(_ context.Context, t repo.Table, id string) (repo.RowNamed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.named[t][id]
	if !ok || r.DeletedAt != nil {
		return repo.RowNamed{}, perr.NotFoundf("%s %s not found", t, id)
	}
	now := m.tick()
	r.DeletedAt, r.UpdatedAt = &now, now
	m.named[t][id] = r
	return r, nil
}

func inScope(r repo.RowTask, s repo.Scope) bool {
	if r.DeletedAt != nil {
		return false
	}
	if s.ProductID != nil && (r.ProductID == nil || *r.ProductID != *s.ProductID) {
		return false
	}
	if s.SolutionID != nil && (r.SolutionID == nil || *r.SolutionID != *s.SolutionID) {
		return false
	}
	return true
}

func (m *memRepo) scoped(s repo.Scope) []repo.RowTask {
	var out []repo.RowTask
	for _, r := range m.tasks {
		if inScope(r, s) {
			out = append(out, r)
		}
	}
	return out
}

func (m *memRepo) FindTasks(_ context.Context, s repo.Scope, q paging.Query) ([]repo.RowTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds = append(m.finds, q)
	return page(m.scoped(s), taskKey, q), nil
}

func (m *memRepo) CountTasks(_ context.Context, s repo.Scope) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scoped(s)), nil
}

func (m *memRepo) GetTask(_ context.Context, id string) (repo.RowTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.tasks[id]
	if !ok || r.DeletedAt != nil {
		return repo.RowTask{}, perr.NotFoundf("task %s not found", id)
	}
	return r, nil
}

func (m *memRepo) InsertTask(_ context.Context, t repo.RowTask) (repo.RowTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parent := t.ProductID
	table := repo.Products
	if parent == nil {
		parent, table = t.SolutionID, repo.Solutions
	}
	if _, ok := m.named[table][*parent]; !ok {
		return repo.RowTask{}, perr.NotFoundf("parent product or solution not found")
	}
	now := m.tick()
	t.ID, t.CreatedAt, t.UpdatedAt = uuid.NewString(), now, now
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) UpdateTask(_ context.Context, id string, p repo.Patch) (repo.RowTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.tasks[id]
	if !ok || (r.DeletedAt != nil && !p.Undelete) {
		return repo.RowTask{}, perr.NotFoundf("task %s not found", id)
	}
	if v, ok := p.Value("name"); ok {
		r.Name = v.(string)
	}
	if v, ok := p.Value("description"); ok {
		r.Description = v.(*string)
	}
	if v, ok := p.Value("est_minutes"); ok {
		r.EstMinutes = v.(int)
	}
	if v, ok := p.Value("weight"); ok {
		r.Weight = v.(float64)
	}
	if v, ok := p.Value("notes"); ok {
		r.Notes = v.(*string)
	}
	if v, ok := p.Value("priority"); ok {
		r.Priority = v.(*string)
	}
	if v, ok := p.Value("sequence_number"); ok {
		r.SequenceNumber = v.(int)
	}
	if p.Undelete {
		r.DeletedAt = nil
	}
	r.UpdatedAt = m.tick()
	m.tasks[id] = r
	return r, nil
}

func (m *memRepo) SoftDeleteTask(_ context.Context, id string) (repo.RowTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.tasks[id]
	if !ok || r.DeletedAt != nil {
		return repo.RowTask{}, perr.NotFoundf("task %s not found", id)
	}
	now := m.tick()
	r.DeletedAt, r.UpdatedAt, r.SequenceNumber = &now, now, 0
	m.tasks[id] = r
	return r, nil
}

func (m *memRepo) NextSequence(_ context.Context, s repo.Scope) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hi := 0
	for _, r := range m.scoped(s) {
		hi = max(hi, r.SequenceNumber)
	}
	return hi + 1, nil
}

func (m *memRepo) WeightSum(_ context.Context, s repo.Scope, excludeID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0.0
	for _, r := range m.scoped(s) {
		if r.ID != excludeID {
			sum += r.Weight
		}
	}
	return sum, nil
}

func (m *memRepo) binder() repokit.Binder[repo.Repo] {
	return repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
}

// fakeTx runs fn and rolls the mem repo back when it fails
type fakeTx struct {
	repokit.TxRunner
	mem *memRepo
	n   int
}

func (f *fakeTx) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	f.n++
	rollback := f.mem.snapshot()
	if err := fn(nil); err != nil {
		rollback()
		return err
	}
	return nil
}

type recorded struct {
	set           string
	kind          changesdom.EntityKind
	id            string
	before, after any
	tx            bool
}

// fakeRecorder persists a set for every non nil actor
type fakeRecorder struct {
	mu    sync.Mutex
	opens int
	items []recorded
	txErr error
}

func (f *fakeRecorder) Open(_ context.Context, actor *string) changesdom.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	id := fmt.Sprintf("set-%d", f.opens)
	if actor == nil {
		return changesdom.NoOp{ID: id}
	}
	return changesdom.Persisted{Set: changesdom.ChangeSet{ID: id, UserID: actor}}
}

func (f *fakeRecorder) Record(_ context.Context, h changesdom.Handle, kind changesdom.EntityKind, id string, before, after any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, recorded{set: h.SetID(), kind: kind, id: id, before: before, after: after})
}

func (f *fakeRecorder) RecordTx(_ context.Context, _ repokit.Queryer, h changesdom.Handle, kind changesdom.EntityKind, id string, before, after any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txErr != nil {
		return f.txErr
	}
	f.items = append(f.items, recorded{set: h.SetID(), kind: kind, id: id, before: before, after: after, tx: true})
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditdom.Entry
}

func (f *fakeAudit) Log(_ context.Context, e auditdom.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
}

func (f *fakeAudit) actions() []auditdom.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]auditdom.Action, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

type recBus struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (b *recBus) Publish(_ context.Context, topic string, _ []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	return b.err
}

type harness struct {
	repo  *memRepo
	tx    *fakeTx
	rec   *fakeRecorder
	audit *fakeAudit
	bus   *recBus
	svc   *Svc
}

func newHarness(opt Options) *harness {
	mem := newMemRepo()
	h := &harness{repo: mem, tx: &fakeTx{mem: mem}, rec: &fakeRecorder{}, audit: &fakeAudit{}, bus: &recBus{}}
	h.svc = New(h.tx, mem.binder(), Deps{Changes: h.rec, Audit: h.audit, Bus: h.bus}, opt, zerolog.Nop())
	return h
}

var errBoom = errors.New("boom")

const actorID = "7d4f6a8c-3b2e-4f11-9a7e-2c5b8d1e0f3a"

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func f64p(v float64) *float64 { return &v }
