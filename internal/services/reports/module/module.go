// Package module wires report persistence, the recorder port and the history endpoints
package module

import (
	"context"
	"slices"

	"rephraser/internal/modkit"
	"rephraser/internal/modkit/httpkit"
	"rephraser/internal/modkit/repokit"
	"rephraser/internal/modkit/swaggerkit"
	dom "rephraser/internal/services/reports/domain"
	rephttp "rephraser/internal/services/reports/http"
	"rephraser/internal/services/reports/repo"
	"rephraser/internal/services/reports/service"
)

// Module defines the reports worker module
type Module struct {
	modkit.Base
	deps   modkit.Deps
	opts   Options
	repo   repo.Repo
	rec    *service.Recorder
	reader *service.Reader
	pgSink *service.PGSink
	sinks  []string
	ports  Ports
}

// New builds the sinks and starts the recorder workers
// the file sink is always on unless disabled, pg when deps.PG is set, kafka when brokers are configured
func New(deps modkit.Deps, overrides Options, mopts ...modkit.Option) *Module {
	opts := merge(FromConfig(deps.Cfg), overrides)
	m := &Module{Base: modkit.Build("reports", "/reports", mopts...), deps: deps, opts: opts}

	var sinks []dom.Sink
	if !opts.DisableFile {
		sinks = append(sinks, service.NewFileSink(opts.Dir))
	}
	if deps.PG != nil {
		m.repo = repokit.MustBind(repo.NewPG(), deps.PG)
		m.reader = service.NewReader(m.repo)
		m.pgSink = service.NewPGSink(m.repo)
		sinks = append(sinks, m.pgSink)
	}
	if len(opts.KafkaBrokers) > 0 {
		sinks = append(sinks, service.NewKafkaSink(opts.KafkaBrokers, opts.KafkaTopic, opts.KafkaAcks))
	}
	for _, s := range sinks {
		m.sinks = append(m.sinks, s.Name())
	}

	var obs service.Observer
	if deps.Metrics != nil {
		obs = deps.Metrics
	}
	m.rec = service.NewRecorder(service.Config{Queue: opts.Queue, Workers: opts.Workers}, obs, sinks...)
	m.ports = Ports{Recorder: m.rec}
	if m.reader != nil {
		m.ports.Reader = m.reader
	} else {
		swaggerkit.Register(hideHistory)
	}

	deps.Log.Info().
		Strs("sinks", m.sinks).
		Str("dir", opts.Dir).
		Int("queue", opts.Queue).
		Int("workers", opts.Workers).
		Msg("report recorder started")
	return m
}

// Start prepares the pg table when the pg sink is active
// a table that cannot be prepared disables the pg sink and history, the api keeps serving
func (m *Module) Start(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	if err := m.repo.EnsureSchema(ctx); err != nil {
		m.deps.Log.Error().Err(err).Msg("report table unavailable, pg sink and history disabled")
		m.pgSink.Disable()
		m.reader.Disable()
		m.sinks = slices.DeleteFunc(m.sinks, func(s string) bool { return s == "pg" })
	}
	return nil
}

// Close drains queued reports and closes the sinks
func (m *Module) Close(ctx context.Context) error { return m.rec.Close(ctx) }

// Sinks lists the active sink names in write order
func (m *Module) Sinks() []string { return m.sinks }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes serves the report history when postgres is wired, nothing otherwise
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.reader == nil {
		return
	}
	m.Mount(r, func(rr httpkit.Router) { rephttp.Register(rr, m.reader) })
}

// hideHistory drops the history paths from the served docs when they are not mounted
func hideHistory(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	delete(paths, "/reports")
	delete(paths, "/reports/{id}")
}
