package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"rephraser/internal/core/denylist"
	perr "rephraser/internal/platform/errors"
	dom "rephraser/internal/services/moderation/domain"
)

type genFunc func(ctx context.Context, prompt string) (string, error)

func (f genFunc) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type memRecorder struct {
	mu      sync.Mutex
	reports []dom.Report
	full    bool
}

func (m *memRecorder) Submit(r dom.Report) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full {
		return false
	}
	m.reports = append(m.reports, r)
	return true
}

type countObs struct {
	mu        sync.Mutex
	outcomes  map[string]int
	flagged   int
	clean     int
	methods   map[string]int
	genCalls  int
	genErrors int
}

func newCountObs() *countObs {
	return &countObs{outcomes: map[string]int{}, methods: map[string]int{}}
}

func (c *countObs) Moderation(o string) { c.mu.Lock(); c.outcomes[o]++; c.mu.Unlock() }
func (c *countObs) Sentence(f bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f {
		c.flagged++
	} else {
		c.clean++
	}
}
func (c *countObs) Revision(m string) { c.mu.Lock(); c.methods[m]++; c.mu.Unlock() }
func (c *countObs) GeneratorCall(_ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genCalls++
	if err != nil {
		c.genErrors++
	}
}

var down = genFunc(func(context.Context, string) (string, error) {
	return "", perr.New(perr.ErrorCodeUnavailable, "connection refused")
})

func newSvc(t *testing.T, terms []string, d Deps) *Svc {
	t.Helper()
	st := denylist.New()
	st.Replace(terms)
	d.Terms = st
	s := New(d, Config{})
	s.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC) }
	s.newID = func() string { return "id-1" }
	return s
}

func TestModerate_MasksWhenGeneratorDown(t *testing.T) {
	t.Parallel()

	rec := &memRecorder{}
	s := newSvc(t, []string{"stupid"}, Deps{Generator: down, Recorder: rec})

	rep, err := s.Moderate(context.Background(), "You are stupid. Have a nice day.")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	want := []dom.ChangeRecord{{
		LineNumber:          1,
		Original:            "You are stupid.",
		OriginalHighlighted: "You are <mark>stupid</mark>.",
		Revised:             "You are [MODERATED].",
		Terms:               []string{"stupid"},
		Method:              dom.MethodMask,
	}}
	if !reflect.DeepEqual(rep.Changes, want) {
		t.Fatalf("changes = %+v", rep.Changes)
	}
	if rep.ID != "id-1" || rep.Timestamp != "2024-05-01T10:00:00.123Z" {
		t.Fatalf("report header = %q %q", rep.ID, rep.Timestamp)
	}
	if rep.Original != "You are stupid. Have a nice day." {
		t.Fatalf("original = %q", rep.Original)
	}
	if len(rec.reports) != 1 || rec.reports[0].ID != "id-1" {
		t.Fatalf("recorder got %+v", rec.reports)
	}
}

func TestModerate_UsesRewrite(t *testing.T) {
	t.Parallel()

	var prompts []string
	gen := genFunc(func(_ context.Context, p string) (string, error) {
		prompts = append(prompts, p)
		return "  You are mistaken.\n", nil
	})
	s := newSvc(t, []string{"stupid", "dumb"}, Deps{Generator: gen})

	rep, err := s.Moderate(context.Background(), "Hello!  You are stupid? That was dumb")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if len(rep.Changes) != 2 {
		t.Fatalf("changes = %+v", rep.Changes)
	}
	if rep.Changes[0].LineNumber != 2 || rep.Changes[1].LineNumber != 3 {
		t.Fatalf("line numbers = %d %d", rep.Changes[0].LineNumber, rep.Changes[1].LineNumber)
	}
	for _, c := range rep.Changes {
		if c.Revised != "You are mistaken." || c.Method != dom.MethodRewrite {
			t.Fatalf("change = %+v", c)
		}
	}
	if len(prompts) != 2 || !strings.HasSuffix(prompts[0], "\nSentence: \"You are stupid?\"") {
		t.Fatalf("prompts = %q", prompts)
	}
	if !strings.HasPrefix(prompts[0], "Rewrite this sentence to be professional and polite") {
		t.Fatalf("prompt = %q", prompts[0])
	}
}

func TestModerate_EmptyGeneratorOutputMasks(t *testing.T) {
	t.Parallel()

	gen := genFunc(func(context.Context, string) (string, error) { return "   ", nil })
	s := newSvc(t, []string{"jerk"}, Deps{Generator: gen})
	rep, err := s.Moderate(context.Background(), "what a jerk")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if got := rep.Changes[0]; got.Revised != "what a [MODERATED]" || got.Method != dom.MethodMask {
		t.Fatalf("change = %+v", got)
	}
}

func TestModerate_GeneratorPanicIsRecovered(t *testing.T) {
	t.Parallel()

	gen := genFunc(func(context.Context, string) (string, error) { panic("kaboom") })
	obs := newCountObs()
	s := newSvc(t, []string{"jerk"}, Deps{Generator: gen, Observer: obs})

	rep, err := s.Moderate(context.Background(), "what a jerk")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if rep.Changes[0].Method != dom.MethodMask {
		t.Fatalf("method = %s", rep.Changes[0].Method)
	}
	if obs.genCalls != 1 || obs.genErrors != 1 || obs.methods["mask"] != 1 {
		t.Fatalf("observer = %+v", obs)
	}
}

func TestModerate_EmptyDenylistHasNoChanges(t *testing.T) {
	t.Parallel()

	called := false
	gen := genFunc(func(context.Context, string) (string, error) { called = true; return "x", nil })
	s := newSvc(t, nil, Deps{Generator: gen})

	rep, err := s.Moderate(context.Background(), "You idiot. You moron!")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if rep.Changes == nil || len(rep.Changes) != 0 {
		t.Fatalf("changes = %#v, want empty non nil", rep.Changes)
	}
	if called {
		t.Fatal("generator should not be called")
	}
}

func TestModerate_EmptyAndWhitespaceText(t *testing.T) {
	t.Parallel()

	rec := &memRecorder{}
	obs := newCountObs()
	s := newSvc(t, []string{"x"}, Deps{Recorder: rec, Observer: obs})

	if _, err := s.Moderate(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("empty err = %v", err)
	}
	for _, in := range []string{"   ", "\n\t", "   \n\t  "} {
		rep, err := s.Moderate(context.Background(), in)
		if err != nil || rep.Changes == nil || len(rep.Changes) != 0 {
			t.Fatalf("Moderate(%q) = %+v, %v", in, rep.Changes, err)
		}
	}
	if len(rec.reports) != 3 || obs.outcomes["invalid"] != 1 || obs.outcomes["ok"] != 3 {
		t.Fatalf("recorder %d, outcomes %v", len(rec.reports), obs.outcomes)
	}
}

func TestModerate_FullRecorderStillReturnsReport(t *testing.T) {
	t.Parallel()

	s := newSvc(t, []string{"jerk"}, Deps{Generator: down, Recorder: &memRecorder{full: true}})
	rep, err := s.Moderate(context.Background(), "jerk")
	if err != nil || len(rep.Changes) != 1 {
		t.Fatalf("rep %+v err %v", rep, err)
	}
}

func TestModerate_SnapshotPinnedForRun(t *testing.T) {
	t.Parallel()

	st := denylist.New()
	st.Replace([]string{"first"})
	gen := genFunc(func(context.Context, string) (string, error) {
		// a replace during the run must not change what later sentences match
		st.Replace([]string{"second"})
		return "", errors.New("down")
	})
	s := New(Deps{Terms: st, Generator: gen}, Config{})

	rep, err := s.Moderate(context.Background(), "first one. second one.")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if len(rep.Changes) != 1 || rep.Changes[0].Terms[0] != "first" {
		t.Fatalf("changes = %+v", rep.Changes)
	}
}

func TestModerate_CanceledContextMasks(t *testing.T) {
	t.Parallel()

	calls := 0
	gen := genFunc(func(context.Context, string) (string, error) { calls++; return "nice", nil })
	rec := &memRecorder{}
	s := newSvc(t, []string{"jerk"}, Deps{Generator: gen, Recorder: rec})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := s.Moderate(ctx, "You jerk. Big jerk.")
	if err != nil || len(rep.Changes) != 2 {
		t.Fatalf("rep %+v err %v", rep.Changes, err)
	}
	for _, c := range rep.Changes {
		if c.Method != dom.MethodMask || strings.Contains(c.Revised, "jerk") {
			t.Fatalf("change = %+v", c)
		}
	}
	if calls != 0 || len(rec.reports) != 1 {
		t.Fatalf("generator calls %d, reports %d", calls, len(rec.reports))
	}
}

func TestModerate_DeadlineMidRunMasksTheRest(t *testing.T) {
	t.Parallel()

	stalled := genFunc(func(ctx context.Context, string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	st := denylist.New()
	st.Replace([]string{"stupid"})
	s := New(Deps{Terms: st, Generator: stalled}, Config{ReviseTimeout: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	rep, err := s.Moderate(ctx, "You are stupid. So stupid. Really stupid.")
	if err != nil || len(rep.Changes) != 3 {
		t.Fatalf("rep %+v err %v", rep.Changes, err)
	}
	for _, c := range rep.Changes {
		if c.Method != dom.MethodMask || c.Revised == c.Original {
			t.Fatalf("change = %+v", c)
		}
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		prober Deps
		want   dom.StatusResponse
	}{
		{"no prober", Deps{}, dom.StatusResponse{Available: false, TermsLoaded: 2}},
		{"reachable", Deps{Prober: pingFunc(func(context.Context) error { return nil })}, dom.StatusResponse{Available: true, TermsLoaded: 2}},
		{"down", Deps{Prober: pingFunc(func(context.Context) error { return errors.New("refused") })}, dom.StatusResponse{Available: false, TermsLoaded: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newSvc(t, []string{"a", "b"}, tc.prober)
			if got := s.Status(context.Background()); got != tc.want {
				t.Fatalf("Status = %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestRevise_TimeoutFallsBackToMask(t *testing.T) {
	t.Parallel()

	gen := genFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	r := NewReviser(gen, ReviserConfig{Timeout: 20 * time.Millisecond, Placeholder: "***"}, nil)
	rev := r.Revise(context.Background(), "you jerk", []string{"jerk"}, nil)
	if rev.Method != dom.MethodMask || rev.Text != "you ***" {
		t.Fatalf("revision = %+v", rev)
	}
	if !errors.Is(rev.Err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", rev.Err)
	}
}

func TestRevise_NilGeneratorMasks(t *testing.T) {
	t.Parallel()

	r := NewReviser(nil, ReviserConfig{}, nil)
	rev := r.Revise(context.Background(), "Idiot!", []string{"idiot"}, nil)
	if rev.Text != "[MODERATED]!" || rev.Method != dom.MethodMask || rev.Err == nil {
		t.Fatalf("revision = %+v", rev)
	}
}
