// Package service implements the moderation pipeline
package service

import (
	"context"
	"time"

	"rephraser/internal/core/segment"
	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/logger"
	dom "rephraser/internal/services/moderation/domain"

	"github.com/google/uuid"
)

// Service is the moderation contract used by transports
type Service interface{ dom.ServicePort }

// PipelineObserver records per run counters, metrics.Registry satisfies it
type PipelineObserver interface {
	GeneratorObserver
	Moderation(outcome string)
	Sentence(flagged bool)
}

// Config controls the pipeline
type Config struct {
	Placeholder   string
	ReviseTimeout time.Duration
}

// Deps are the pipeline collaborators, only Terms is required
type Deps struct {
	Terms     dom.TermSource
	Generator dom.Generator
	Prober    dom.Prober
	Recorder  dom.Recorder
	Observer  PipelineObserver
}

// Svc implements Service
type Svc struct {
	terms    dom.TermSource
	prober   dom.Prober
	recorder dom.Recorder
	obs      PipelineObserver
	reviser  *Reviser

	now   func() time.Time
	newID func() string
}

// New constructs the pipeline
func New(d Deps, cfg Config) *Svc {
	if d.Terms == nil {
		panic("moderation.Service requires a non nil TermSource")
	}
	var gobs GeneratorObserver
	if d.Observer != nil {
		gobs = d.Observer
	}
	return &Svc{
		terms:    d.Terms,
		prober:   d.Prober,
		recorder: d.Recorder,
		obs:      d.Observer,
		reviser: NewReviser(d.Generator, ReviserConfig{
			Placeholder: cfg.Placeholder,
			Timeout:     cfg.ReviseTimeout,
		}, gobs),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Moderate splits text, revises every sentence carrying a denylist term, and
// hands the resulting report to the recorder without waiting for it
// only empty text is an error, whitespace yields no sentences and generator
// failures, including a done ctx, fall back to masking
func (s *Svc) Moderate(ctx context.Context, text string) (dom.Report, error) {
	if text == "" {
		s.outcome("invalid")
		return dom.Report{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "text is required"), "text")
	}

	snap := s.terms.Snapshot()
	set := snap.Matcher()
	log := logger.C(ctx)

	changes := make([]dom.ChangeRecord, 0)
	for _, sent := range segment.Split(text) {
		res := set.Check(sent.Text)
		s.sentence(res.HasMatches())
		if !res.HasMatches() {
			continue
		}
		rev := s.reviser.Revise(ctx, sent.Text, res.Terms, set)
		changes = append(changes, dom.ChangeRecord{
			LineNumber:          sent.Ordinal,
			Original:            sent.Text,
			OriginalHighlighted: res.Highlighted,
			Revised:             rev.Text,
			Terms:               res.Terms,
			Method:              rev.Method,
		})
	}

	at := s.now().UTC().Truncate(time.Millisecond)
	rep := dom.Report{
		ID:        s.newID(),
		Original:  text,
		Changes:   changes,
		Timestamp: dom.FormatTimestamp(at),
		At:        at,
	}

	if s.recorder != nil && !s.recorder.Submit(rep) {
		log.Warn().Str("report_id", rep.ID).Msg("report not queued")
	}
	log.Debug().
		Str("report_id", rep.ID).
		Uint64("denylist_version", snap.Version()).
		Int("changes", len(changes)).
		Msg("moderated")
	s.outcome("ok")
	return rep, nil
}

// Status probes the generator and reports the loaded term count, it never fails
func (s *Svc) Status(ctx context.Context) dom.StatusResponse {
	out := dom.StatusResponse{TermsLoaded: s.terms.Snapshot().Len()}
	if s.prober == nil {
		return out
	}
	if err := s.prober.Ping(ctx); err != nil {
		logger.C(ctx).Debug().Err(err).Msg("generator probe failed")
		return out
	}
	out.Available = true
	return out
}

func (s *Svc) outcome(o string) {
	if s.obs != nil {
		s.obs.Moderation(o)
	}
}

func (s *Svc) sentence(flagged bool) {
	if s.obs != nil {
		s.obs.Sentence(flagged)
	}
}
