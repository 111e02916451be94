// Package service exposes the process wide denylist to transports
package service

import (
	"context"

	"rephraser/internal/core/denylist"
	"rephraser/internal/platform/logger"
	dom "rephraser/internal/services/denylist/domain"
)

// Service defines the service contract for the denylist
type Service interface{ dom.ServicePort }

// Observer records replacements made over the API
type Observer interface {
	DenylistLoad(source string, err error)
}

// Svc implements Service over a denylist.Store
type Svc struct {
	store *denylist.Store
	obs   Observer
}

// New wraps store, obs may be nil
func New(store *denylist.Store, obs Observer) *Svc {
	if store == nil {
		panic("denylist.Service requires a non nil store")
	}
	return &Svc{store: store, obs: obs}
}

// List returns a copy of the active terms
func (s *Svc) List(_ context.Context) dom.ListResponse {
	terms := s.store.Current()
	return dom.ListResponse{Terms: terms, Count: len(terms)}
}

// Replace swaps the whole list for the lines in text
// an empty text clears the list
func (s *Svc) Replace(ctx context.Context, text string) dom.ReplaceResponse {
	n := s.store.ReplaceText(text)
	if s.obs != nil {
		s.obs.DenylistLoad("http", nil)
	}
	logger.C(ctx).Info().Int("terms", n).Uint64("version", s.store.Snapshot().Version()).Msg("denylist replaced")
	return dom.ReplaceResponse{Success: true, Count: n}
}
