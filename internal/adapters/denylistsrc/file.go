// Package denylistsrc loads the denylist from a newline delimited file and keeps it fresh
package denylistsrc

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"rephraser/internal/core/denylist"
	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/logger"
)

const (
	// files larger than this are rejected rather than half loaded
	maxFileBytes     = 8 << 20
	debounceDefault  = 250 * time.Millisecond
	sourceFileMetric = "file"
)

// Target receives parsed lines, *denylist.Store satisfies it
type Target interface {
	Replace(lines []string) int
}

// Observer is told about every load attempt, metrics.Registry satisfies it
type Observer interface {
	DenylistLoad(source string, err error)
}

// Options configures a Source
type Options struct {
	Path     string
	Debounce time.Duration
}

// Source reads Path into a Target
type Source struct {
	opts   Options
	target Target
	obs    Observer
	log    logger.Logger
}

// New creates a file Source, obs may be nil
func New(target Target, o Options, obs Observer) *Source {
	if o.Debounce <= 0 {
		o.Debounce = debounceDefault
	}
	return &Source{
		opts:   o,
		target: target,
		obs:    obs,
		log:    *logger.Named("denylist-file"),
	}
}

// Path returns the watched file path
func (s *Source) Path() string { return s.opts.Path }

// Read returns the raw lines of the file without touching the target
func (s *Source) Read() ([]string, error) {
	if strings.TrimSpace(s.opts.Path) == "" {
		return nil, perr.New(perr.ErrorCodeInvalidArgument, "denylist path is empty")
	}
	f, err := os.Open(s.opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "denylist file %s not found", s.opts.Path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "open denylist file %s", s.opts.Path)
	}
	defer func() { _ = f.Close() }()

	b, err := io.ReadAll(io.LimitReader(f, maxFileBytes+1))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read denylist file %s", s.opts.Path)
	}
	if len(b) > maxFileBytes {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "denylist file %s exceeds %d bytes", s.opts.Path, maxFileBytes)
	}
	return denylist.ParseLines(string(b)), nil
}

// Load reads the file and replaces the target list
// on error the target is left as it was
func (s *Source) Load() (int, error) {
	lines, err := s.Read()
	if s.obs != nil {
		s.obs.DenylistLoad(sourceFileMetric, err)
	}
	if err != nil {
		return 0, err
	}
	n := s.target.Replace(lines)
	s.log.Info().Str("path", s.opts.Path).Int("terms", n).Msg("denylist loaded")
	return n, nil
}

// Boot performs the startup load
// an unreadable file leaves the list empty and is only logged so the service stays up
func (s *Source) Boot(_ context.Context) int {
	n, err := s.Load()
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.opts.Path).Msg("denylist unavailable at boot, starting with an empty list")
		return 0
	}
	return n
}
