package http

import (
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func tag(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Add("X-Layer", name)
			next.ServeHTTP(w, r)
		})
	}
}

func text(s string) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = io.WriteString(w, s) }
}

func newTestRouter(t *testing.T) Router {
	t.Helper()

	r := AdaptChi(chi.NewRouter())
	r.Use(tag("root"))
	r.Get("/health", text("ok"))
	r.Route("/api/v1", func(api Router) {
		api.Use(tag("api"))
		if api.Mux() == nil {
			t.Fatal("subrouter Mux is nil")
		}
		api.Get("/denylist", text("list"))
		api.Post("/denylist", text("replaced"))
		api.Method(stdhttp.MethodPut, "/denylist", text("put"))
		api.Route("/moderate", func(mod Router) {
			mod.Post("/", text("moderated"))
		})
	})
	r.Handle("/metrics", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusTeapot)
	}))
	return r
}

func TestAdaptChi_Routes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	cases := []struct {
		method, path string
		code         int
		body         string
		layers       []string
	}{
		{stdhttp.MethodGet, "/health", 200, "ok", []string{"root"}},
		{stdhttp.MethodGet, "/api/v1/denylist", 200, "list", []string{"root", "api"}},
		{stdhttp.MethodPost, "/api/v1/denylist", 200, "replaced", []string{"root", "api"}},
		{stdhttp.MethodPut, "/api/v1/denylist", 200, "put", []string{"root", "api"}},
		{stdhttp.MethodPost, "/api/v1/moderate/", 200, "moderated", []string{"root", "api"}},
		{stdhttp.MethodGet, "/metrics", stdhttp.StatusTeapot, "", []string{"root"}},
		{stdhttp.MethodDelete, "/api/v1/denylist", stdhttp.StatusMethodNotAllowed, "", nil},
		{stdhttp.MethodGet, "/nope", stdhttp.StatusNotFound, "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.code {
				t.Fatalf("status = %d want %d", rec.Code, tc.code)
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("body = %q", rec.Body.String())
			}
			if tc.layers == nil {
				return
			}
			got := rec.Header().Values("X-Layer")
			if len(got) != len(tc.layers) {
				t.Fatalf("layers = %v want %v", got, tc.layers)
			}
			for i := range got {
				if got[i] != tc.layers[i] {
					t.Fatalf("layers = %v want %v", got, tc.layers)
				}
			}
		})
	}
}
