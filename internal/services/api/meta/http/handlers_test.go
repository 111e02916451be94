package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "rephraser/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, d Deps, path string) phttp.Envelope {
	t.Helper()
	root := phttp.AdaptChi(chi.NewRouter())
	root.Route("/meta", func(r phttp.Router) { Register(r, d) })

	rec := httptest.NewRecorder()
	root.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("%s status = %d body %s", path, rec.Code, rec.Body.String())
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return env
}

func data[T any](t *testing.T, env phttp.Envelope) T {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatal(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("data: %v", err)
	}
	return out
}

func TestReady_Table(t *testing.T) {
	t.Parallel()

	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name   string
		gen    Pinger
		pg     any
		want   string
		checks map[string]string
	}{
		{"nothing wired", nil, nil, "ok", map[string]string{"generator": "skipped", "pg": "skipped"}},
		{"all up", ok, ok, "ok", map[string]string{"generator": "ok", "pg": "ok"}},
		{"generator down", down, nil, "degraded", map[string]string{"generator": "fail", "pg": "skipped"}},
		{"pg without ping", ok, struct{}{}, "degraded", map[string]string{"generator": "ok", "pg": "unknown"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := serve(t, Deps{ServiceName: "rephraser-api", Generator: tc.gen, PG: tc.pg}, "/meta/ready")
			got := data[ReadyResponse](t, env)
			if got.Status != tc.want {
				t.Fatalf("status = %q want %q", got.Status, tc.want)
			}
			for _, c := range got.Checks {
				if tc.checks[c.Name] != c.Status {
					t.Fatalf("check %s = %q want %q", c.Name, c.Status, tc.checks[c.Name])
				}
				if c.Status == "fail" && c.Error == "" {
					t.Fatalf("failed check %s has no error", c.Name)
				}
			}
		})
	}
}

func TestReady_TimeoutBoundsProbe(t *testing.T) {
	t.Parallel()

	slow := pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	start := time.Now()
	env := serve(t, Deps{Generator: slow, ReadyTimeout: 20 * time.Millisecond}, "/meta/ready")
	if got := data[ReadyResponse](t, env); got.Status != "degraded" {
		t.Fatalf("status = %q", got.Status)
	}
	if time.Since(start) > time.Second {
		t.Fatal("probe was not bounded by ReadyTimeout")
	}
}

func TestHealthAndService(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 9, 3, 13, 0, 0, 0, time.UTC)
	now := func() time.Time { return started.Add(5 * time.Minute) }
	d := Deps{ServiceName: "rephraser-api", StartedAt: started, Now: now}

	h := data[HealthResponse](t, serve(t, d, "/meta/health"))
	if !h.OK || h.Service != "rephraser-api" || h.Started != "2025-09-03T13:00:00Z" || h.Now != "2025-09-03T13:05:00Z" {
		t.Fatalf("health = %+v", h)
	}

	s := data[ServiceResponse](t, serve(t, d, "/meta/service"))
	if s.Uptime != 300 || s.Name != "rephraser-api" {
		t.Fatalf("service = %+v", s)
	}

	if env := serve(t, d, "/meta/version"); env.Data == nil {
		t.Fatal("version has no data")
	}
}
