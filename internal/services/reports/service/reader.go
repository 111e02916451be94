package service

import (
	"context"
	"encoding/json"
	"sync/atomic"

	perr "rephraser/internal/platform/errors"
	dom "rephraser/internal/services/reports/domain"
	"rephraser/internal/services/reports/repo"

	"github.com/google/uuid"
)

// Reader serves the report history from postgres
type Reader struct {
	repo repo.Repo
	off  atomic.Bool
}

// NewReader wraps a bound repo
func NewReader(r repo.Repo) *Reader {
	if r == nil {
		panic("reports.Reader requires a non nil Repo")
	}
	return &Reader{repo: r}
}

// Disable makes every read ErrorCodeUnavailable
func (rd *Reader) Disable() { rd.off.Store(true) }

func (rd *Reader) available() error {
	if rd.off.Load() {
		return perr.Unavailablef("report history unavailable")
	}
	return nil
}

// Recent lists the newest reports first, limit is clamped by the repo
func (rd *Reader) Recent(ctx context.Context, limit int) ([]dom.Summary, error) {
	if err := rd.available(); err != nil {
		return nil, err
	}
	rows, err := rd.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, dom.Summary{ID: r.ID, CreatedAt: r.CreatedAt.UTC(), Changes: r.Changes})
	}
	return out, nil
}

// Get loads one report, a malformed id is a validation error rather than a miss
func (rd *Reader) Get(ctx context.Context, id string) (dom.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return dom.Report{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "report id %q is not a uuid", id), "id")
	}
	if err := rd.available(); err != nil {
		return dom.Report{}, err
	}
	row, err := rd.repo.Get(ctx, id)
	if err != nil {
		return dom.Report{}, err
	}
	var rep dom.Report
	if err := json.Unmarshal(row.Payload, &rep); err != nil {
		return dom.Report{}, perr.Wrapf(err, perr.ErrorCodeDB, "report %s payload is corrupt", id)
	}
	rep.At = row.CreatedAt
	return rep, nil
}
