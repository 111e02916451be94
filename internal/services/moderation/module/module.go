// Package module wires the moderation pipeline and its endpoints
package module

import (
	"rephraser/internal/adapters/ollama"
	modkit "rephraser/internal/modkit"
	"rephraser/internal/modkit/httpkit"
	dom "rephraser/internal/services/moderation/domain"
	modhttp "rephraser/internal/services/moderation/http"
	"rephraser/internal/services/moderation/service"
)

// Module serves the moderation endpoints
type Module struct {
	modkit.Base
	opts Options

	gen   *ollama.Client
	svc   service.Service
	ports Ports
}

// New builds the pipeline, callers must pass dom.Ports through modkit.WithPorts or WithDepsModules
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build("moderation", "/moderation", opts...)

	in, ok := b.Injected().(dom.Ports)
	if !ok {
		panic("moderation module: expected WithPorts(moderation/domain.Ports)")
	}
	if in.Terms == nil {
		panic("moderation module: Ports missing Terms")
	}

	o := merge(FromConfig(deps.Cfg), overrides)
	gen := ollama.NewClient(o.Generator)

	var obs service.PipelineObserver
	if deps.Metrics != nil {
		obs = deps.Metrics
	}
	svc := service.New(service.Deps{
		Terms:     in.Terms,
		Generator: gen,
		Prober:    gen,
		Recorder:  in.Recorder,
		Observer:  obs,
	}, service.Config{
		Placeholder:   o.Placeholder,
		ReviseTimeout: o.Generator.Timeout,
	})

	m := &Module{
		Base:  b,
		opts:  o,
		gen:   gen,
		svc:   svc,
		ports: Ports{Service: svc, Prober: gen},
	}

	deps.Log.Info().
		Str("generator", gen.BaseURL()).
		Str("model", gen.Model()).
		Bool("recorder", in.Recorder != nil).
		Msg("moderation pipeline ready")
	return m
}

// Options returns the merged options
func (m *Module) Options() Options { return m.opts }

// MountRoutes serves moderate and status
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) {
		modhttp.Register(rr, m.svc, modhttp.Options{MaxBytes: m.opts.MaxBytes})
	})
}
