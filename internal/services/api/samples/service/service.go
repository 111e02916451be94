// Package service serves demo samples
package service

import (
	"context"

	"rephraser/internal/platform/logger"
	"rephraser/internal/services/api/samples/domain"
	"rephraser/internal/services/api/samples/repo"
)

// Service defines the service contract for samples
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
}

// New creates a new samples service
func New(r repo.Repo) *Svc {
	if r == nil {
		panic("samples.Service requires a non nil Repo")
	}
	return &Svc{Repo: r}
}

// List returns the samples, or an empty list when the source cannot be read
func (s *Svc) List(ctx context.Context) []domain.Sample {
	rows, err := s.Repo.All(ctx)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("samples unavailable")
		return []domain.Sample{}
	}
	out := make([]domain.Sample, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Sample(r))
	}
	return out
}
