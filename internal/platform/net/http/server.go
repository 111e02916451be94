package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"rephraser/internal/platform/config"
	"rephraser/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

const portDefault = ":8080"

// Server owns the root chi mux and the http.Server in front of it
type Server struct {
	mux   *chi.Mux
	srv   *http.Server
	grace time.Duration
}

// NewServer reads PORT, READ_HEADER_TIMEOUT and SHUTDOWN_GRACE from cfg
// PORT may be a bare number, opts see the root mux before any route is added
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		mux: m,
		srv: &http.Server{
			Addr:              listenAddr(cfg.MayString("PORT", portDefault)),
			Handler:           m,
			ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		},
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

func listenAddr(v string) string {
	if v == "" {
		return portDefault
	}
	if _, err := strconv.ParseUint(v, 10, 16); err == nil {
		return ":" + v
	}
	return v
}

// Router is the mux behind the Router seam
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler is the root handler, for httptest
func (s *Server) Handler() http.Handler { return s.mux }

// Addr is the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is done or the listener fails
// a done ctx drains in flight requests for up to the shutdown grace
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	served := make(chan error, 1)
	go func() { served <- s.srv.Serve(ln) }()

	select {
	case err := <-served:
		return ignoreClosed(err)
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.grace).Msg("http shutting down")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	return ignoreClosed(<-served)
}

// Shutdown stops accepting and waits for in flight requests
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
