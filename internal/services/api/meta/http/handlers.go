// Package http serves liveness, readiness, build and uptime info
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"rephraser/internal/core/version"
	"rephraser/internal/modkit/httpkit"
)

// Pinger is any dependency that can report whether it answers
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
// Generator and PG may be nil, they are then reported as skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Generator   Pinger
	// PG is the store seam, checked when it also implements Pinger
	PG           any
	ReadyTimeout time.Duration
	Now          func() time.Time
}

type handlers struct{ Deps }

// Register mounts health, ready, version and service on r
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	h := handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(h.Now())}, nil
}

// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ReadyTimeout)
	defer cancel()

	targets := []struct {
		name string
		dep  any
	}{
		{"generator", h.Generator},
		{"pg", h.PG},
	}
	checks := make([]ReadyCheck, len(targets))
	var wg sync.WaitGroup
	for i, tg := range targets {
		wg.Go(func() { checks[i] = probe(ctx, tg.name, tg.dep) })
	}
	wg.Wait()

	status := CheckOK
	for _, c := range checks {
		if c.Status == CheckFail || c.Status == CheckUnknown {
			status = "degraded"
		}
	}
	return ReadyResponse{Status: status, Checks: checks, Now: stamp(h.Now())}, nil
}

func probe(ctx context.Context, name string, dep any) ReadyCheck {
	c := ReadyCheck{Name: name}
	switch p := dep.(type) {
	case nil:
		c.Status = CheckSkipped
	case Pinger:
		c.Status = CheckOK
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = CheckFail, err.Error()
		}
	default:
		c.Status = CheckUnknown
	}
	return c
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h handlers) version(*http.Request) (any, error) { return version.Info(), nil }

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(h.Now().Sub(h.StartedAt) / time.Second),
	}, nil
}
