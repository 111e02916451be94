// Package module wires the denylist store, its file source and the HTTP endpoints
package module

import (
	"context"
	"sync"

	"rephraser/internal/adapters/denylistsrc"
	"rephraser/internal/core/denylist"
	modkit "rephraser/internal/modkit"
	"rephraser/internal/modkit/httpkit"
	dlhttp "rephraser/internal/services/denylist/http"
	dlsvc "rephraser/internal/services/denylist/service"
)

// Module owns the process wide denylist
type Module struct {
	modkit.Base
	deps modkit.Deps
	opts Options

	store *denylist.Store
	src   *denylistsrc.Source
	svc   dlsvc.Service
	ports Ports

	stop context.CancelFunc
	wg   sync.WaitGroup
}

// New builds the store and its file source, nothing is read until Start
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	o := merge(FromConfig(deps.Cfg), overrides)

	var storeOpts []denylist.Option
	var loadObs denylistsrc.Observer
	var svcObs dlsvc.Observer
	if deps.Metrics != nil {
		storeOpts = append(storeOpts, denylist.WithObserver(deps.Metrics.DenylistSize))
		loadObs = deps.Metrics
		svcObs = deps.Metrics
	}
	st := denylist.New(storeOpts...)

	return &Module{
		Base:  modkit.Build("denylist", "/denylist", opts...),
		deps:  deps,
		opts:  o,
		store: st,
		src:   denylistsrc.New(st, denylistsrc.Options{Path: o.Path, Debounce: o.Debounce}, loadObs),
		svc:   dlsvc.New(st, svcObs),
		ports: Ports{Terms: st, Store: st},
	}
}

// Start loads the file once and, when enabled, keeps watching it
// a missing or unreadable file leaves the list empty
func (m *Module) Start(ctx context.Context) error {
	m.src.Boot(ctx)
	if !m.opts.Watch || m.opts.Path == "" {
		return nil
	}

	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.stop = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.src.Watch(wctx); err != nil {
			m.deps.Log.Warn().Err(err).Str("path", m.opts.Path).Msg("denylist watcher stopped")
		}
	}()
	return nil
}

// Close stops the watcher
func (m *Module) Close(ctx context.Context) error {
	if m.stop == nil {
		return nil
	}
	m.stop()
	done := make(chan struct{})
	go func() { m.wg.Wait(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Store returns the live list
func (m *Module) Store() *denylist.Store { return m.store }

// MountRoutes serves GET and POST on the list
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) {
		dlhttp.Register(rr, m.svc, dlhttp.Options{MaxBytes: m.opts.MaxBytes})
	})
}
