// Package pg builds the pgx pool behind report history and traces its statements
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the pool shape, zero fields keep the pgx defaults
type Config struct {
	URL      string
	AppName  string
	MaxConns int32
	// SlowMs marks statements at or over it as slow, negative never does
	SlowMs int
}

// Pool is an open pgxpool plus where its statements are reported
type Pool struct {
	*pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var dial = pgxpool.NewWithConfig

// Open builds the pool without waiting for the server
func Open(ctx context.Context, cfg Config, tracer QueryTracer) (*Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := dial(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg pool: %w", err)
	}
	return &Pool{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	return pc, nil
}

// Close is nil safe
func (p *Pool) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
