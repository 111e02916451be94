package denylistsrc

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	perr "rephraser/internal/platform/errors"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the file whenever it changes until ctx is done
// the parent directory is watched so editors that replace the file by rename are seen,
// bursts of events within Debounce collapse into one reload, and a failed reload keeps
// the current list
func (s *Source) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "create fsnotify watcher")
	}
	defer func() { _ = w.Close() }()

	abs, err := filepath.Abs(s.opts.Path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve denylist path %s", s.opts.Path)
	}
	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "watch %s", dir)
	}
	s.log.Info().Str("path", abs).Dur("debounce", s.opts.Debounce).Msg("denylist watcher started")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		if _, err := s.Load(); err != nil {
			s.log.Warn().Err(err).Str("path", abs).Msg("denylist reload failed, keeping current list")
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("denylist watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return perr.New(perr.ErrorCodeUnavailable, "watcher events channel closed")
			}
			if !relevant(ev, abs) {
				continue
			}
			s.log.Debug().Str("op", ev.Op.String()).Str("name", ev.Name).Msg("denylist file event")
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.opts.Debounce, reload)
			mu.Unlock()

		case err, ok := <-w.Errors:
			if !ok {
				return perr.New(perr.ErrorCodeUnavailable, "watcher errors channel closed")
			}
			s.log.Error().Err(err).Msg("denylist watcher error")
		}
	}
}

// relevant keeps writes, creates, and renames that land on the watched file
func relevant(ev fsnotify.Event, abs string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
