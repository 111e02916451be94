// @title         Rephraser API
// @version       0.1.0
// @description   Denylist management and sentence level moderation

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rephraser/internal/platform/config"
	"rephraser/internal/platform/logger"
	phttp "rephraser/internal/platform/net/http"
	"rephraser/internal/platform/store"

	"rephraser/internal/services/api"
)

const closeWindow = 15 * time.Second

func main() {
	root := config.New()
	coreCfg := root.Prefix("CORE_")
	apiCfg := coreCfg.Prefix("API_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres is optional, without it reports go to disk and kafka only
	st, err := store.Open(ctx, store.Config{
		AppName: "rephraser-api",
		PG:      store.PGFromConfig(root.Prefix("SERVICE_PGSQL_")),
	}, store.WithLogger(*l))
	if err != nil {
		l.Warn().Err(err).Msg("postgres unavailable, report history disabled")
		st = &store.Store{}
	} else if err := st.Guard(ctx); err != nil {
		l.Warn().Err(err).Msg("store not ready")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	rt := api.Mount(
		srv.Router(),
		api.Options{
			Config:         coreCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)
	if err := rt.Start(ctx); err != nil {
		l.Error().Err(err).Msg("module start failed")
		_ = rt.Close(context.Background())
		return
	}

	runErr := srv.Run(ctx)

	cctx, cancel := context.WithTimeout(context.Background(), closeWindow)
	defer cancel()
	if err := rt.Close(cctx); err != nil {
		l.Error().Err(err).Msg("module close failed")
	}
	if runErr != nil {
		l.Error().Err(runErr).Msg("http server stopped")
		return
	}
	l.Info().Msg("bye")
}
