package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"dap/internal/platform/pubsub"

	"github.com/rs/zerolog"
)

func TestOpen_BackendErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]Config{
		"pg bad url":     {PG: PGConfig{Enabled: true, URL: "://bad"}},
		"ch bad url":     {CH: CHConfig{Enabled: true, URL: "://nope"}},
		"nats no url":    {NATS: NATSConfig{Enabled: true}},
		"pg fails first": {PG: PGConfig{Enabled: true, URL: "://bad"}, CH: CHConfig{Enabled: true, URL: "clickhouse://local"}},
	}
	for name, cfg := range cases {
		s, err := Open(context.Background(), cfg)
		if err == nil || s != nil {
			t.Fatalf("%s: want error and nil store, got %v %#v", name, err, s)
		}
	}
}

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()

	var opt Option = WithLogger(zerolog.New(io.Discard))
	s, err := Open(context.Background(), Config{AppName: "dap"}, opt)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("disabled backends must stay nil: %#v", s)
	}
	if _, ok := s.Bus.(pubsub.Noop); !ok {
		t.Fatalf("Bus = %T, want pubsub.Noop", s.Bus)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_OptionError(t *testing.T) {
	t.Parallel()

	bad := func(*Store) error { return errors.New("bad option") }
	if _, err := Open(context.Background(), Config{}, bad); err == nil {
		t.Fatal("option error should abort Open")
	}
}

type pingBus struct{ err error }

func (pingBus) Publish(context.Context, string, []byte) error { return nil }
func (b pingBus) Ping(context.Context) error                  { return b.err }

func TestGuard(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatal("nil store should fail Guard")
	}

	ok := &Store{
		PG:  newPGRunner(&stubPool{}, nil),
		CH:  newCHAdapter(&fakeCH{}),
		Bus: pingBus{},
	}
	if err := ok.Guard(context.Background()); err != nil {
		t.Fatalf("healthy store: %v", err)
	}

	down := &Store{
		PG:  newPGRunner(&stubPool{pingErr: errors.New("pg down")}, nil),
		CH:  newCHAdapter(&fakeCH{pingErr: errors.New("ch down")}),
		Bus: pingBus{err: errors.New("nats down")},
	}
	err := down.Guard(context.Background())
	if err == nil {
		t.Fatal("expected joined error")
	}
	for _, want := range []string{"pg: pg down", "ch: ch down", "nats: nats down"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Guard error %q missing %q", err, want)
		}
	}
}

func TestClose_ClosesEveryBackend(t *testing.T) {
	t.Parallel()

	pool := &stubPool{}
	chc := &fakeCH{}
	s := &Store{PG: newPGRunner(pool, nil), CH: newCHAdapter(chc), Bus: pubsub.Noop{}}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pool.closed || !chc.closed {
		t.Fatalf("pool closed=%v ch closed=%v", pool.closed, chc.closed)
	}
}
