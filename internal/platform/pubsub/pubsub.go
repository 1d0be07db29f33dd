// Package pubsub provides a fire and forget notification channel over NATS core publish
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dap/internal/platform/logger"

	"github.com/nats-io/nats.go"
)

// Publisher sends a payload to a topic
// implementations must not block on slow subscribers
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// PublishJSON marshals v and publishes it
func PublishJSON(ctx context.Context, p Publisher, topic string, v any) error {
	if p == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %w", topic, err)
	}
	return p.Publish(ctx, topic, b)
}

// Noop drops everything, used when NATS is disabled
type Noop struct{}

// Publish implements Publisher
func (Noop) Publish(context.Context, string, []byte) error { return nil }

// Config configures the NATS connection
type Config struct {
	URL            string
	Name           string
	ConnectTimeout time.Duration
}

// NATS publishes on a core NATS connection
type NATS struct {
	conn *nats.Conn
	log  logger.Logger
}

var connect = nats.Connect

// Connect dials NATS, retrying until cfg.ConnectTimeout elapses
func Connect(ctx context.Context, cfg Config, log logger.Logger) (*NATS, error) {
	if cfg.URL == "" {
		return nil, errors.New("pubsub: empty nats url")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	l := log.With().Str("component", "nats").Logger()
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			l.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			l.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	}

	deadline := time.Now().Add(cfg.ConnectTimeout)
	for {
		c, err := connect(cfg.URL, opts...)
		if err == nil {
			l.Info().Str("url", c.ConnectedUrl()).Msg("nats connected")
			return &NATS{conn: c, log: l}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("pubsub: connect timeout after %s: %w", cfg.ConnectTimeout, err)
		}
		l.Debug().Err(err).Msg("nats connect retry")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// Publish implements Publisher
// core publish is buffered by the client so this never waits on subscribers
func (n *NATS) Publish(_ context.Context, topic string, payload []byte) error {
	if n == nil || n.conn == nil {
		return errors.New("pubsub: nil connection")
	}
	return n.conn.Publish(topic, payload)
}

// Ping flushes the connection to confirm the server is reachable
func (n *NATS) Ping(ctx context.Context) error {
	if n == nil || n.conn == nil {
		return errors.New("pubsub: nil connection")
	}
	return n.conn.FlushWithContext(ctx)
}

// Close drains pending messages then closes
func (n *NATS) Close() error {
	if n == nil || n.conn == nil {
		return nil
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	return nil
}

// Logged wraps a Publisher and logs failures instead of returning them
func Logged(p Publisher, log logger.Logger) Publisher {
	return logged{inner: p, log: log}
}

type logged struct {
	inner Publisher
	log   logger.Logger
}

func (l logged) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := l.inner.Publish(ctx, topic, payload); err != nil {
		l.log.Warn().Err(err).Str("topic", topic).Msg("publish failed")
	}
	return nil
}
