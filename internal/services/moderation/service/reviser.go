package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rephraser/internal/core/matcher"
	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/logger"
	dom "rephraser/internal/services/moderation/domain"
)

const (
	promptTemplate = "Rewrite this sentence to be professional and polite, removing offensive language while keeping the original intent. Return ONLY the rewritten sentence, nothing else.\nSentence: \"%s\""

	reviseTimeoutDefault = 30 * time.Second
)

// Prompt builds the rewrite instruction for one sentence
func Prompt(sentence string) string { return fmt.Sprintf(promptTemplate, sentence) }

// Revision is the outcome of revising one sentence
// Err holds the generator failure that forced a mask, nil on rewrite
type Revision struct {
	Text   string
	Method dom.Method
	Err    error
}

// ReviserConfig controls the Reviser
type ReviserConfig struct {
	Placeholder string
	Timeout     time.Duration
}

// GeneratorObserver records generator calls, metrics.Registry satisfies it
type GeneratorObserver interface {
	GeneratorCall(d time.Duration, err error)
	Revision(method string)
}

// Reviser turns a flagged sentence into its replacement
type Reviser struct {
	gen dom.Generator
	cfg ReviserConfig
	obs GeneratorObserver
	now func() time.Time
}

// NewReviser builds a Reviser, gen may be nil which always masks
func NewReviser(gen dom.Generator, cfg ReviserConfig, obs GeneratorObserver) *Reviser {
	if cfg.Placeholder == "" {
		cfg.Placeholder = matcher.DefaultPlaceholder
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = reviseTimeoutDefault
	}
	return &Reviser{gen: gen, cfg: cfg, obs: obs, now: time.Now}
}

// Revise asks the generator for a rewrite and masks terms when that fails
// set is the snapshot's compiled patterns and may be nil
func (r *Reviser) Revise(ctx context.Context, sentence string, terms []string, set *matcher.Set) Revision {
	text, err := r.rewrite(ctx, sentence)
	if err == nil {
		r.record(dom.MethodRewrite)
		return Revision{Text: text, Method: dom.MethodRewrite}
	}
	ev := logger.C(ctx).Warn().Err(err).Strs("terms", terms)
	if e, ok := perr.As(err); ok && e.Op() != "" {
		ev = ev.Str("op", e.Op())
	}
	ev.Msg("rewrite unavailable, masking")
	r.record(dom.MethodMask)
	return Revision{
		Text:   set.Mask(sentence, terms, r.cfg.Placeholder),
		Method: dom.MethodMask,
		Err:    err,
	}
}

func (r *Reviser) rewrite(ctx context.Context, sentence string) (text string, err error) {
	if r.gen == nil {
		return "", perr.New(perr.ErrorCodeUnavailable, "no generator configured")
	}
	// a done request masks the rest of its sentences without calling out
	if err := ctx.Err(); err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnavailable, "generate rewrite"), "generate")
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := r.now()
	defer func() {
		if rec := recover(); rec != nil {
			err = perr.WithOp(perr.Newf(perr.ErrorCodePanic, "generator panic: %v", rec), "generate")
		}
		if r.obs != nil {
			r.obs.GeneratorCall(r.now().Sub(start), err)
		}
	}()

	text, err = r.gen.Generate(ctx, Prompt(sentence))
	if err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnavailable, "generate rewrite"), "generate")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", perr.New(perr.ErrorCodeUnavailable, "generator returned no text")
	}
	return text, nil
}

func (r *Reviser) record(m dom.Method) {
	if r.obs != nil {
		r.obs.Revision(string(m))
	}
}
