// Package module wires the samples endpoint into the API
package module

import (
	modkit "rephraser/internal/modkit"
	"rephraser/internal/modkit/httpkit"
	sampleshttp "rephraser/internal/services/api/samples/http"
	samplesrepo "rephraser/internal/services/api/samples/repo"
	samplessvc "rephraser/internal/services/api/samples/service"
)

// Module serves the example texts
type Module struct {
	modkit.Base
	svc samplessvc.Service
}

// Path is the samples file, SAMPLES_PATH under deps.Cfg
func Path(deps modkit.Deps) string {
	return deps.Cfg.Prefix("SAMPLES_").MayString("PATH", "samples.json")
}

// New reads nothing up front, the file is read on every request
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return &Module{
		Base: modkit.Build("samples", "/samples", opts...),
		svc:  samplessvc.New(samplesrepo.NewFile(Path(deps))),
	}
}

// MountRoutes serves GET on the prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { sampleshttp.Register(rr, m.svc) })
}

// Ports exposes the service as a samples ServicePort
func (m *Module) Ports() any { return m.svc }
