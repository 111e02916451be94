package pg

import (
	"context"
	"strings"

	"rephraser/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement the store runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs slow and failed statements, and every statement when all is set
// Argument values are never logged, report payloads carry user text
func Tracer(root logger.Logger, all bool) QueryTracer {
	return &zlTracer{log: root.With().Str("component", "pg").Logger(), all: all}
}

type zlTracer struct {
	log logger.Logger
	all bool
}

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	var e *zerolog.Event
	switch {
	case ev.Err != nil:
		e = z.log.Error().Err(ev.Err)
	case ev.Slow:
		e = z.log.Warn()
	case z.all:
		e = z.log.Info()
	default:
		return
	}
	e.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Int("args", len(ev.Args)).
		Msg("pg query")
}

// compact folds all whitespace runs into single spaces
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
