package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"rephraser/internal/platform/config"
	perr "rephraser/internal/platform/errors"

	"github.com/rs/zerolog"
)

type pingRunner struct {
	fakeRowQuerier
	pingErr error
	closed  int
}

func (p *pingRunner) Tx(_ context.Context, fn func(RowQuerier) error) error { return fn(p) }
func (p *pingRunner) Ping(context.Context) error                          { return p.pingErr }
func (p *pingRunner) Close() error                                        { p.closed++; return nil }

type plainRunner struct{ fakeRowQuerier }

func (p *plainRunner) Tx(_ context.Context, fn func(RowQuerier) error) error { return fn(p) }

func TestOpen_BadURL(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if err == nil || s != nil {
		t.Fatalf("Open = %v, %v", s, err)
	}
}

func TestOpen_WithoutPGLogsThroughOption(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{AppName: "rephraser-api"}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	if s.PG != nil {
		t.Fatal("pg should stay nil when disabled")
	}
	s.Log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatal("store logger did not reach the option writer")
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestGuard_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		store *Store
		ok    bool
	}{
		{"nil store", nil, false},
		{"no pg", &Store{}, true},
		{"pg without ping", &Store{PG: &plainRunner{}}, true},
		{"pg up", &Store{PG: &pingRunner{}}, true},
		{"pg down", &Store{PG: &pingRunner{pingErr: errors.New("connection refused")}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.store.Guard(context.Background())
			if (err == nil) != tc.ok {
				t.Fatalf("Guard = %v", err)
			}
			if err != nil && !perr.IsCode(err, perr.ErrorCodeUnavailable) {
				t.Fatalf("code = %v", perr.CodeOf(err))
			}
		})
	}
}

func TestClose_Table(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	p := &pingRunner{}
	if err := (&Store{PG: p}).Close(context.Background()); err != nil || p.closed != 1 {
		t.Fatalf("close err=%v closed=%d", err, p.closed)
	}
	if err := (&Store{PG: &plainRunner{}}).Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestPGFromConfig(t *testing.T) {
	t.Setenv("STORETEST_DBURL", "")
	c := config.New().Prefix("STORETEST_")
	if got := PGFromConfig(c); got.Enabled || got.MaxConns != 4 || got.retries() != defaultConnectRetries {
		t.Fatalf("defaults = %+v", got)
	}

	t.Setenv("STORETEST_DBURL", "postgres://u:p@db:5432/reports")
	t.Setenv("STORETEST_MAX_CONNS", "9")
	t.Setenv("STORETEST_PING_TIMEOUT", "750ms")
	t.Setenv("STORETEST_LOG_SQL", "true")
	got := PGFromConfig(c)
	if !got.Enabled || got.URL != "postgres://u:p@db:5432/reports" || !got.LogSQL {
		t.Fatalf("url not picked up: %+v", got)
	}
	if got.MaxConns != 9 || got.pingTimeout() != 750*time.Millisecond {
		t.Fatalf("overrides = %+v", got)
	}
}

func TestPGConfig_ZeroKnobsUseDefaults(t *testing.T) {
	t.Parallel()

	var c PGConfig
	if c.retries() != defaultConnectRetries || c.pingTimeout() != defaultPingTimeout {
		t.Fatalf("zero config should use defaults, got %d %v", c.retries(), c.pingTimeout())
	}
}
