// Package module wires health, readiness and build info endpoints
package module

import (
	"time"

	modkit "rephraser/internal/modkit"
	"rephraser/internal/modkit/httpkit"

	metahttp "rephraser/internal/services/api/meta/http"
)

// Module serves the meta endpoints
type Module struct {
	modkit.Base
	deps metahttp.Deps
}

// Checks are optional readiness probes handed in with modkit.WithPorts
type Checks struct {
	Generator metahttp.Pinger
}

// New records the start time for uptime, readiness probes come from WithPorts(Checks{...})
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build("meta", "/meta", opts...)
	checks, _ := b.Injected().(Checks)
	return &Module{
		Base: b,
		deps: metahttp.Deps{
			ServiceName: "rephraser-api",
			StartedAt:   time.Now(),
			Generator:   checks.Generator,
			PG:          deps.PG,
		},
	}
}

// MountRoutes serves health, ready, version and service
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Ports is nil, nothing depends on meta
func (m *Module) Ports() any { return nil }
