package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type sqlState struct {
	code  ErrorCode
	retry bool
}

// SQLSTATEs with a specific meaning for the report store, the rest map to ErrorCodeDB
var sqlStates = map[string]sqlState{
	"23505": {code: ErrorCodeDuplicateKey},
	"23502": {code: ErrorCodeValidation},
	"23514": {code: ErrorCodeValidation},
	"22001": {code: ErrorCodeInvalidArgument},
	"22P02": {code: ErrorCodeInvalidArgument},
	"22007": {code: ErrorCodeInvalidArgument},
	"40001": {code: ErrorCodeDB, retry: true},
	"40P01": {code: ErrorCodeDB, retry: true},
	"55P03": {code: ErrorCodeDB, retry: true},
	"57014": {code: ErrorCodeUnavailable, retry: true},
	"25006": {code: ErrorCodeUnavailable},
	"57P03": {code: ErrorCodeUnavailable, retry: true},
	// table missing until EnsureSchema has run
	"42P01": {code: ErrorCodeUnavailable},
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	return pe, stderrs.As(err, &pe)
}

// FromPostgres classifies a database error under msg and names the column when
// postgres reports one, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	pe, ok := pgError(err)
	if !ok {
		if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) {
			return Wrap(err, ErrorCodeUnavailable, msg)
		}
		return Wrap(err, ErrorCodeDB, msg)
	}
	code := ErrorCodeDB
	if st, ok := sqlStates[pe.Code]; ok {
		code = st.code
	}
	out := Wrap(err, code, msg)
	if f := pgField(pe); f != "" {
		out = WithField(out, f)
	}
	return out
}

// pgField prefers the column, a primary key violation names id
func pgField(pe *pgconn.PgError) string {
	if c := strings.TrimSpace(pe.ColumnName); c != "" {
		return c
	}
	if strings.HasSuffix(pe.ConstraintName, "_pkey") {
		return "id"
	}
	return ""
}

// Retryable reports whether running the same statement again may succeed
// Context cancellation is never retryable
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgError(err); ok {
		return sqlStates[pe.Code].retry
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	return strings.Contains(strings.ToLower(Root(err).Error()), "commit unexpectedly resulted in rollback")
}
