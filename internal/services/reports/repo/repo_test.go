package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/store"
)

type fakeTag string

func (t fakeTag) String() string      { return string(t) }
func (t fakeTag) RowsAffected() int64 { return 1 }

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Scan(dst ...any) error {
	row := r.data[r.i-1]
	*(dst[0].(*string)) = row[0].(string)
	*(dst[1].(*time.Time)) = row[1].(time.Time)
	*(dst[2].(*int)) = row[2].(int)
	*(dst[3].(*string)) = row[3].(string)
	return nil
}
func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return []string{"id", "created_at", "changes", "payload"} }

type fakeQ struct {
	lastSQL  string
	lastArgs []any
	rows     [][]any
	execErr  error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	if f.execErr != nil {
		return nil, f.execErr
	}
	return fakeTag("INSERT 0 1"), nil
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	return &fakeRows{data: f.rows}, nil
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

func TestRecent_ClampsLimit(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ in, want int }{{0, 50}, {-3, 50}, {500, 50}, {10, 10}} {
		q := &fakeQ{}
		if _, err := NewPG().Bind(q).Recent(context.Background(), tc.in); err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if got := q.lastArgs[0].(int); got != tc.want {
			t.Fatalf("limit(%d) = %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestGet_ScansAndMapsMissing(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	q := &fakeQ{rows: [][]any{{"id-1", at, 2, `{"id":"id-1"}`}}}
	r := NewPG().Bind(q)

	got, err := r.Get(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "id-1" || got.Changes != 2 || string(got.Payload) != `{"id":"id-1"}` || !got.CreatedAt.Equal(at) {
		t.Fatalf("row = %+v", got)
	}

	q.rows = nil
	if _, err := r.Get(context.Background(), "nope"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestInsert_PassesPayloadAsText(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	err := NewPG().Bind(q).Insert(context.Background(), Row{ID: "x", Payload: []byte(`{"a":1}`)})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !strings.Contains(q.lastSQL, "insert into moderation_reports") || q.lastArgs[3] != `{"a":1}` {
		t.Fatalf("sql %q args %v", q.lastSQL, q.lastArgs)
	}

	q.execErr = errors.New("conn reset")
	if err := NewPG().Bind(q).Insert(context.Background(), Row{ID: "x"}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v", err)
	}
}

type fakeTx struct {
	fakeQ
	txs   int
	execs []string
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return f.fakeQ.Exec(ctx, sql, args...)
}

func (f *fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	f.txs++
	return fn(f)
}

func TestEnsureSchema_RunsInOneTx(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	if err := NewPG().Bind(tx).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if tx.txs != 1 || len(tx.execs) != 2 {
		t.Fatalf("txs = %d execs = %d", tx.txs, len(tx.execs))
	}
	if !strings.Contains(tx.execs[1], "moderation_reports_created_at_idx") {
		t.Fatalf("second statement = %q", tx.execs[1])
	}

	q := &fakeQ{execErr: errors.New("permission denied")}
	if err := NewPG().Bind(q).EnsureSchema(context.Background()); err == nil {
		t.Fatal("expected error without a tx runner")
	}
}
