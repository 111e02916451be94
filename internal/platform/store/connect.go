package store

import (
	"context"
	"fmt"
	"time"

	"rephraser/internal/platform/logger"
	"rephraser/internal/platform/store/pg"
)

const (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// connectPG opens the pool and waits for the server to answer a ping
// the pool is closed again when it never does
func connectPG(ctx context.Context, cfg Config, log logger.Logger) (TxRunner, error) {
	pool, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, pg.Tracer(log, cfg.PG.LogSQL))
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.retries()
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, cfg.PG.pingTimeout())
		defer cancel()
		return pool.Ping(pctx)
	}
	err = retry(ctx, attempts, ping, func(n int, err error) {
		log.Warn().Err(err).Int("attempt", n).Int("of", attempts).Msg("postgres not ready")
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	return newPGAdapter(pool), nil
}

var pause = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry calls fn up to attempts times, doubling the wait between calls up to backoffCeiling
func retry(ctx context.Context, attempts int, fn func() error, failed func(n int, err error)) error {
	wait := backoffStart
	var err error
	for n := 1; n <= attempts; n++ {
		if err = fn(); err == nil {
			return nil
		}
		failed(n, err)
		if n == attempts {
			break
		}
		if werr := pause(ctx, wait); werr != nil {
			return werr
		}
		wait = min(wait*2, backoffCeiling)
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
}
