// Package logger builds the process logger on zerolog and carries request scoped children on contexts
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"dap/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger, aliased so call sites only import this package
type Logger = zerolog.Logger

// Options configures New
type Options struct {
	Level   string // zerolog level name, unknown or empty means debug
	Format  string // "console" for human output, anything else is JSON
	Service string
	Caller  bool
	Writer  io.Writer // defaults to stdout
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:   env.Get("LEVEL", "debug"),
		Format:  strings.ToLower(env.Get("FORMAT", "console")),
		Service: env.Get("SERVICE", ""),
		Caller:  env.GetBool("CALLER", false),
	}
}

// New builds a logger from opt
func New(opt Options) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(w).Level(lvl).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		c = c.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	if opt.Caller {
		c = c.Caller()
	}
	return c.Logger()
}

var root = sync.OnceValue(func() *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := New(FromEnv())
	zerolog.DefaultContextLogger = &l
	return &l
})

// Get returns the process logger, built from the environment on first use
func Get() *Logger { return root() }

// Named returns a child of the process logger tagged with component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

// C returns the logger carried by ctx, or the process logger
func C(ctx context.Context) *Logger {
	Get()
	return zerolog.Ctx(ctx)
}

// With returns ctx carrying a child of C(ctx) with the given key value pairs, a dangling key is dropped
// empty values are skipped
func With(ctx context.Context, kv ...string) context.Context {
	b := C(ctx).With()
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			b = b.Str(kv[i], kv[i+1])
		}
	}
	l := b.Logger()
	return l.WithContext(ctx)
}
