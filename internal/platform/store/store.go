// Package store owns the optional postgres connection behind report history
// repos talk to the small interfaces below, never to pgx
package store

import (
	"context"

	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/logger"
)

type (
	// Row is one scannable result
	Row interface {
		Scan(dest ...any) error
	}

	// Rows is a result set, Close is idempotent
	Rows interface {
		Row
		Next() bool
		Err() error
		Close()
		Columns() []string
	}

	// CommandTag reports what a write did
	CommandTag interface {
		String() string
		RowsAffected() int64
	}

	// RowQuerier is the sql surface repos use
	RowQuerier interface {
		Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) Row
	}

	// TxRunner is a RowQuerier that can also run fn inside one transaction
	TxRunner interface {
		RowQuerier
		Tx(ctx context.Context, fn func(q RowQuerier) error) error
	}

	// Pinger reports readiness
	Pinger interface{ Ping(context.Context) error }
)

// Store holds whichever backends were configured, the zero value has none
type Store struct {
	// Log is a no op until WithLogger sets it
	Log logger.Logger
	// PG is nil unless postgres was enabled and answered a ping
	PG TxRunner
}

// Option adjusts a Store before its backends open
type Option func(*Store)

// WithLogger routes backend logs, including traced sql, to log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open connects the backends cfg enables
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}
	if !cfg.PG.Enabled {
		return s, nil
	}
	pg, err := connectPG(ctx, cfg, s.Log)
	if err != nil {
		return nil, err
	}
	s.PG = pg
	return s, nil
}

// HasPG reports whether postgres is open
func (s *Store) HasPG() bool { return s != nil && s.PG != nil }

// Guard pings postgres when it is open, anything else counts as ready
// a failed ping is ErrorCodeUnavailable
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return perr.Unavailablef("store not opened")
	}
	p, ok := s.PG.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "pg ping")
	}
	return nil
}

// Close releases postgres, nil safe
func (s *Store) Close(context.Context) error {
	if !s.HasPG() {
		return nil
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
