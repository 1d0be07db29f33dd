// Package pg opens the pgx pool behind the sql seam and waits for it to answer
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and creates a pool
// pgxpool connects lazily so a nil error says nothing about reachability, see WaitReady
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	return newPool(ctx, pc)
}

// Pinger is the readiness probe WaitReady polls
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backoff bounds the readiness loop
type Backoff struct {
	Attempts int
	Timeout  time.Duration // per ping
	Start    time.Duration
	Ceiling  time.Duration
}

// DefaultBackoff gives a cold container roughly half a minute
var DefaultBackoff = Backoff{
	Attempts: 20,
	Timeout:  3 * time.Second,
	Start:    150 * time.Millisecond,
	Ceiling:  2 * time.Second,
}

var sleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WaitReady pings p until it answers, doubling the pause between attempts up to b.Ceiling
func WaitReady(ctx context.Context, p Pinger, b Backoff) error {
	if b.Attempts <= 0 {
		b.Attempts = 1
	}
	var last error
	pause := b.Start
	for i := 0; i < b.Attempts; i++ {
		if last = ping(ctx, p, b.Timeout); last == nil {
			return nil
		}
		if i == b.Attempts-1 {
			break
		}
		if err := sleep(ctx, pause); err != nil {
			return err
		}
		pause = min(pause*2, b.Ceiling)
	}
	return fmt.Errorf("pg: not ready after %d attempts: %w", b.Attempts, last)
}

func ping(ctx context.Context, p Pinger, timeout time.Duration) error {
	if timeout <= 0 {
		return p.Ping(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Ping(ctx)
}
