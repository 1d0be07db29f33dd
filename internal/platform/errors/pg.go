package errors

import (
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
)

// sqlstateCodes maps the SQLSTATEs the repos can trigger, everything else is ErrorCodeDB
var sqlstateCodes = map[string]ErrorCode{
	sqlstateUniqueViolation:     ErrorCodeDuplicateKey,
	sqlstateForeignKeyViolation: ErrorCodeInvalidArgument, // input referenced a missing row
	"23502":                     ErrorCodeValidation,      // not null
	"23514":                     ErrorCodeValidation,      // check
	"22001":                     ErrorCodeInvalidArgument, // value too long
	"22P02":                     ErrorCodeInvalidArgument, // bad text representation, e.g. a malformed uuid
	"25006":                     ErrorCodeUnavailable,     // read only transaction
	"57P03":                     ErrorCodeUnavailable,     // server starting up
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// IsSQLState reports whether err wraps a PgError with the given SQLSTATE
func IsSQLState(err error, state string) bool {
	pe, ok := pgError(err)
	return ok && pe.Code == state
}

func IsDuplicateKey(err error) bool { return IsSQLState(err, sqlstateUniqueViolation) }

func IsForeignKeyViolation(err error) bool { return IsSQLState(err, sqlstateForeignKeyViolation) }

// FromPostgres wraps a driver error with a code derived from its SQLSTATE, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if pe, ok := pgError(err); ok {
		if c, known := sqlstateCodes[pe.Code]; known {
			code = c
		}
	}
	return Wrap(err, code, msg)
}

func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// FromPostgresWithField is FromPostgres plus the column the server blamed, if any
func FromPostgresWithField(err error, msg string) error {
	out := FromPostgres(err, msg)
	if pe, ok := pgError(err); ok {
		if f := pgField(pe); f != "" {
			return WithField(out, f)
		}
	}
	return out
}

// pgField prefers the column name and falls back to the middle of a <table>_<col>_key constraint
func pgField(pe *pgconn.PgError) string {
	if c := strings.TrimSpace(pe.ColumnName); c != "" {
		return c
	}
	name := strings.TrimSpace(pe.ConstraintName)
	for _, suffix := range []string{"_key", "_fkey", "_check"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			if i := strings.IndexByte(trimmed, '_'); i >= 0 && i+1 < len(trimmed) {
				return trimmed[i+1:]
			}
		}
	}
	return ""
}
