package middleware

import (
	"context"
	"net/http"
	"time"

	"rephraser/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures AccessLog
type AccessLogOptions struct {
	// Slow logs requests at or over it at warn, zero never does
	Slow time.Duration
	// Skip lists exact paths never logged, probes and scrapes
	Skip []string
	// Log returns the logger for a request, logger.C when nil
	Log func(context.Context) *logger.Logger
}

// Correlate puts the chi request id and client address where logger.C finds them
// it goes after RequestID and RealIP
func Correlate() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), chimw.GetReqID(r.Context()), r.RemoteAddr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog writes one line per request once the handler returns
// 5xx and slow requests log at warn, route is the matched chi pattern
func AccessLog(o AccessLogOptions) Middleware {
	skip := make(map[string]bool, len(o.Skip))
	for _, p := range o.Skip {
		skip[p] = true
	}
	logFor := o.Log
	if logFor == nil {
		logFor = logger.C
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logFor(r.Context())
			ev := log.Info()
			if status >= http.StatusInternalServerError || (o.Slow > 0 && took >= o.Slow) {
				ev = log.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route(r)).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", took).
				Msg("request")
		})
	}
}

func route(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return r.URL.Path
}
