// Package logger owns the process logger and the request scoped children built from it
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"rephraser/internal/platform/config/raw"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger, aliased so callers import one package
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	// Level is a zerolog level name, unknown names fall back to debug
	Level string
	// Format is console or json
	Format  string
	Service string
	Caller  bool
	// Writer defaults to stdout
	Writer io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
// through raw config, config itself logs so it cannot be used here
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:   rc.Get("LEVEL", "debug"),
		Format:  strings.ToLower(rc.Get("FORMAT", "console")),
		Service: rc.Get("SERVICE", ""),
		Caller:  rc.GetBool("CALLER", false),
	}
}

// New builds a logger from opt without touching the process root
func New(opt Options) Logger {
	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	c := zerolog.New(w).Level(level(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	if opt.Caller {
		c = c.Caller()
	}
	return c.Logger()
}

func level(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || l == zerolog.NoLevel {
		if strings.EqualFold(strings.TrimSpace(s), "warning") {
			return zerolog.WarnLevel
		}
		return zerolog.DebugLevel
	}
	return l
}

var (
	mu   sync.Mutex
	root *Logger
)

// Init sets the process root once, later calls are ignored
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		return
	}
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := New(opt)
	root = &l
}

// Get returns the root, initialising it from the environment on first use
func Get() *Logger {
	mu.Lock()
	l := root
	mu.Unlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.Lock()
	defer mu.Unlock()
	return root
}

// Named returns a child tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type remoteKey struct{}

// WithRequest stores the request id where chi looks for it and the client address next to it
func WithRequest(ctx context.Context, reqID, remote string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if remote != "" {
		ctx = context.WithValue(ctx, remoteKey{}, remote)
	}
	return ctx
}

// C returns a child of the root carrying request_id and remote from ctx when present
func C(ctx context.Context) *Logger {
	c := Get().With()
	if id := chimw.GetReqID(ctx); id != "" {
		c = c.Str("request_id", id)
	}
	if remote, _ := ctx.Value(remoteKey{}).(string); remote != "" {
		c = c.Str("remote", remote)
	}
	l := c.Logger()
	return &l
}
