package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"rephraser/internal/core/normalize"
	perr "rephraser/internal/platform/errors"
	moddom "rephraser/internal/services/moderation/domain"
	dom "rephraser/internal/services/reports/domain"
	"rephraser/internal/services/reports/repo"
)

const (
	pgWriteTimeout  = 5 * time.Second
	pgWriteAttempts = 3
)

// pgRetryBackoff is scaled by the attempt number
var pgRetryBackoff = 100 * time.Millisecond

// PGSink stores reports in the moderation_reports table
type PGSink struct {
	repo repo.Repo
	off  atomic.Bool
}

// NewPGSink wraps a bound report repo
func NewPGSink(r repo.Repo) *PGSink { return &PGSink{repo: r} }

// Name implements domain.Sink
func (p *PGSink) Name() string { return "pg" }

// Disable turns Write into a no op, for a table that could not be prepared
func (p *PGSink) Disable() { p.off.Store(true) }

// Write implements domain.Sink
// serialization failures and deadlocks are retried, anything else fails at once
func (p *PGSink) Write(ctx context.Context, rep dom.Report) error {
	if p.off.Load() {
		return nil
	}
	payload, err := json.Marshal(jsonbSafe(rep))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode report")
	}
	at := rep.At
	if at.IsZero() {
		if at, err = time.Parse(time.RFC3339Nano, rep.Timestamp); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "report %s has bad timestamp", rep.ID)
		}
	}
	row := repo.Row{
		ID:        rep.ID,
		CreatedAt: at,
		Changes:   len(rep.Changes),
		Payload:   payload,
	}

	for attempt := 1; ; attempt++ {
		ictx, cancel := context.WithTimeout(ctx, pgWriteTimeout)
		err = p.repo.Insert(ictx, row)
		cancel()
		if err == nil || attempt == pgWriteAttempts || !perr.Retryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "report insert abandoned")
		case <-time.After(time.Duration(attempt) * pgRetryBackoff):
		}
	}
}

// jsonbSafe returns a copy of rep with control bytes dropped from its text
// jsonb rejects \u0000 outright (22P05), the other sinks keep the raw report
func jsonbSafe(rep dom.Report) dom.Report {
	rep.Original = normalize.Sanitize(rep.Original)
	changes := make([]moddom.ChangeRecord, len(rep.Changes))
	for i, c := range rep.Changes {
		c.Original = normalize.Sanitize(c.Original)
		c.OriginalHighlighted = normalize.Sanitize(c.OriginalHighlighted)
		c.Revised = normalize.Sanitize(c.Revised)
		terms := make([]string, len(c.Terms))
		for j, term := range c.Terms {
			terms[j] = normalize.Sanitize(term)
		}
		c.Terms = terms
		changes[i] = c
	}
	rep.Changes = changes
	return rep
}
