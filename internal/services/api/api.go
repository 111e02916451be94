// Package api composes the HTTP API from the service modules
package api

import (
	"context"
	"errors"
	"time"

	"rephraser/internal/platform/config"
	"rephraser/internal/platform/logger"
	"rephraser/internal/platform/metrics"
	phttp "rephraser/internal/platform/net/http"
	"rephraser/internal/platform/net/middleware"
	"rephraser/internal/platform/store"

	"rephraser/internal/modkit"
	"rephraser/internal/modkit/httpkit"
	"rephraser/internal/modkit/module"
	"rephraser/internal/modkit/swaggerkit"

	metamod "rephraser/internal/services/api/meta/module"
	samplesmod "rephraser/internal/services/api/samples/module"
	denylistmod "rephraser/internal/services/denylist/module"
	moderationmod "rephraser/internal/services/moderation/module"
	reportsmod "rephraser/internal/services/reports/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_ scope, modules add their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Runtime owns the background work started by the mounted modules
type Runtime struct {
	log        logger.Logger
	lifecycles []modkit.Lifecycle
	started    int
}

// Start runs module startup in mount order, the first failure stops the sequence
func (rt *Runtime) Start(ctx context.Context) error {
	for _, lc := range rt.lifecycles {
		if err := lc.Start(ctx); err != nil {
			return err
		}
		rt.started++
	}
	return nil
}

// Close stops started modules in reverse order
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := rt.started - 1; i >= 0; i-- {
		if err := rt.lifecycles[i].Close(ctx); err != nil {
			rt.log.Error().Err(err).Msg("module close failed")
			errs = append(errs, err)
		}
	}
	rt.started = 0
	return errors.Join(errs...)
}

// Mount mounts the API service onto the given router
// call Start on the returned runtime before serving and Close after
func Mount(r phttp.Router, opt Options) *Runtime {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}
	apiCfg := opt.Config.Prefix("API_")

	deps := modkit.Deps{
		Log: *log,
		Cfg: opt.Config,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	var reg *metrics.Registry
	if opt.EnableMetrics {
		reg = metrics.New(metrics.Options{RuntimeCollectors: true})
		deps.Metrics = reg
	}

	terms := denylistmod.New(deps, denylistmod.Options{})
	reports := reportsmod.New(deps, reportsmod.Options{})
	modOpts := []modkit.Option{moderationmod.WithDepsModules(terms, reports)}
	// generator calls are slow, cap concurrent moderations separately from the api wide limit
	if n := opt.Config.Prefix("MODERATION_").MayInt("MAX_IN_FLIGHT", 0); n > 0 {
		modOpts = append(modOpts, modkit.WithMiddlewares(middleware.ThrottleBacklog(n, n*4, 30*time.Second)))
	}
	moderation := moderationmod.New(deps, moderationmod.Options{}, modOpts...)
	prober := module.MustPortsOf[moderationmod.Ports](moderation).Prober

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Checks{Generator: prober})),
		terms,
		moderation,
		samplesmod.New(deps),
		reports,
	}

	stack := httpkit.StackOptions{
		CORSOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		MaxInFlight: apiCfg.MayInt("MAX_IN_FLIGHT", 0),
		QuietPaths:  []string{"/api/v1/meta/health", "/api/v1/meta/ready"},
	}
	if reg != nil {
		stack.Instrument = reg.Middleware
		r.Handle("/metrics", reg.Handler())
	}

	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled:     opt.EnableSwagger,
		TitleSuffix: apiCfg.MayString("DOCS_TITLE_SUFFIX", ""),
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPI(r, "v1", httpkit.CommonStack(stack), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	log.Info().
		Bool("pg", deps.HasPG()).
		Bool("metrics", reg != nil).
		Strs("report_sinks", reports.Sinks()).
		Msg("api mounted")

	// denylist first so the list is loaded before traffic
	return &Runtime{
		log:        *log,
		lifecycles: []modkit.Lifecycle{terms, reports},
	}
}
