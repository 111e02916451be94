package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"rephraser/internal/platform/net/middleware"
)

// StackOptions tune CommonStack, the zero value is usable
type StackOptions struct {
	// CORSOrigins empty allows any origin
	CORSOrigins []string
	// Timeout bounds a request, zero means 5m so multi sentence rewrites can finish
	Timeout time.Duration
	// Instrument wraps handlers for metrics when set
	Instrument func(http.Handler) http.Handler
	// MaxInFlight caps concurrent requests when > 0, the backlog is the same size
	MaxInFlight int
	// SlowRequest marks access log lines as warn, zero means 10s
	SlowRequest time.Duration
	// QuietPaths are full request paths left out of the access log, probes mostly
	QuietPaths []string
}

// CommonStack is the middleware every versioned route sits behind, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Minute
	}
	if o.SlowRequest <= 0 {
		o.SlowRequest = 10 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Correlate(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest, Skip: o.QuietPaths}),
		middleware.Recover,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
	}
	if o.Instrument != nil {
		stack = append(stack, o.Instrument)
	}
	if o.MaxInFlight > 0 {
		stack = append(stack, middleware.ThrottleBacklog(o.MaxInFlight, o.MaxInFlight, o.Timeout))
	}
	return append(stack,
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	)
}
