// Package service persists moderation reports off the request path
package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/logger"
	dom "rephraser/internal/services/reports/domain"
)

const (
	queueDefault   = 64
	workersDefault = 1
)

// Observer records sink outcomes, metrics.Registry satisfies it
type Observer interface {
	ReportWrite(sink string, err error)
	ReportDropped()
}

// Config controls the Recorder
type Config struct {
	Queue   int
	Workers int
}

// Recorder fans queued reports out to every sink from a small worker pool
// a failing sink is logged and does not stop the others
type Recorder struct {
	sinks []dom.Sink
	obs   Observer
	log   logger.Logger

	jobs    chan dom.Report
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewRecorder starts the workers, obs may be nil
func NewRecorder(cfg Config, obs Observer, sinks ...dom.Sink) *Recorder {
	if cfg.Queue <= 0 {
		cfg.Queue = queueDefault
	}
	if cfg.Workers <= 0 {
		cfg.Workers = workersDefault
	}
	r := &Recorder{
		sinks: sinks,
		obs:   obs,
		log:   *logger.Named("reports"),
		jobs:  make(chan dom.Report, cfg.Queue),
	}
	r.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go r.work()
	}
	return r
}

// Submit queues r without blocking
// a full queue or a closed recorder drops the report and returns false
func (r *Recorder) Submit(rep dom.Report) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.drop(rep, "recorder closed")
		return false
	}
	select {
	case r.jobs <- rep:
		return true
	default:
		r.drop(rep, "report queue full")
		return false
	}
}

// Dropped returns how many reports were not queued
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Close stops accepting reports and waits for queued ones to be written
// returns ErrorCodeUnavailable when ctx ends first
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.jobs)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		if n := r.Dropped(); n > 0 {
			r.log.Warn().Int64("dropped", n).Msg("reports dropped while the queue was full")
		}
		r.closeSinks()
		return nil
	case <-ctx.Done():
		return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "report drain interrupted")
	}
}

func (r *Recorder) work() {
	defer r.wg.Done()
	for rep := range r.jobs {
		r.write(rep)
	}
}

// write runs every sink, sinks do their own timeouts
func (r *Recorder) write(rep dom.Report) {
	ctx := context.Background()
	for _, s := range r.sinks {
		err := s.Write(ctx, rep)
		if r.obs != nil {
			r.obs.ReportWrite(s.Name(), err)
		}
		if err != nil {
			r.log.Error().Err(err).Str("sink", s.Name()).Str("report_id", rep.ID).Msg("report write failed")
			continue
		}
		r.log.Debug().Str("sink", s.Name()).Str("report_id", rep.ID).Msg("report written")
	}
}

// closeSinks releases sinks that hold connections
func (r *Recorder) closeSinks() {
	for _, s := range r.sinks {
		c, ok := s.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			r.log.Warn().Err(err).Str("sink", s.Name()).Msg("sink close failed")
		}
	}
}

func (r *Recorder) drop(rep dom.Report, why string) {
	r.dropped.Add(1)
	if r.obs != nil {
		r.obs.ReportDropped()
	}
	r.log.Warn().Str("report_id", rep.ID).Msg(why)
}
