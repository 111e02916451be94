package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/logger"
	pnet "rephraser/internal/platform/net"
)

// Recover turns a handler panic into the standard 500 envelope and logs it with the stack
// http.ErrAbortHandler is re-panicked so net/http can drop the connection
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			id := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("panic recovered")

			if id != "" {
				w.Header().Set("X-Request-Id", id)
			}
			status, body := pnet.Error(perr.PanicErrf("panic recovered"), id)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}()
		next.ServeHTTP(w, r)
	})
}
