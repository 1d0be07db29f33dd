package pg

import (
	"context"
	"strings"
	"time"

	"dap/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Statement describes one finished round trip
type Statement struct {
	SQL  string
	Args []any
	Took time.Duration
	Err  error
}

// Tracer receives every finished statement
type Tracer interface {
	Statement(ctx context.Context, st Statement)
}

// LogTracer writes statements to zerolog, slow ones at warn
type LogTracer struct {
	log  logger.Logger
	slow time.Duration
}

// NewLogTracer pins its own level to debug so LOG_SQL works whatever the root level is
// slow <= 0 disables the warn escalation
func NewLogTracer(root logger.Logger, slow time.Duration) *LogTracer {
	return &LogTracer{
		log:  root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		slow: slow,
	}
}

// Statement implements Tracer
func (t *LogTracer) Statement(_ context.Context, st Statement) {
	slow := t.slow > 0 && st.Took >= t.slow
	ev := t.log.Info()
	if slow {
		ev = t.log.Warn()
	}
	ev.Dur("took", st.Took).
		Bool("slow", slow).
		Str("sql", strings.Join(strings.Fields(st.SQL), " ")).
		Interface("args", st.Args).
		Err(st.Err).
		Msg("pg statement")
}
