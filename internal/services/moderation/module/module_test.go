package module

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rephraser/internal/adapters/ollama"
	"rephraser/internal/core/denylist"
	modkit "rephraser/internal/modkit"
	"rephraser/internal/platform/config"
	phttp "rephraser/internal/platform/net/http"
	"rephraser/internal/platform/testkit"
	dlmodule "rephraser/internal/services/denylist/module"
	dom "rephraser/internal/services/moderation/domain"

	"github.com/go-chi/chi/v5"
)

type recorder struct{ got []dom.Report }

func (r *recorder) Submit(rep dom.Report) bool { r.got = append(r.got, rep); return true }

func fakeOllama(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/generate":
			_ = json.NewEncoder(w).Encode(map[string]any{"response": reply, "done": true})
		default:
			w.WriteHeader(stdhttp.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mount(m *Module) stdhttp.Handler {
	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	return r.Mux()
}

func TestFromConfig_OllamaHostFallback(t *testing.T) {
	t.Setenv("MT_GENERATOR_URL", "")
	t.Setenv("MT_MODERATION_PLACEHOLDER", "")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	got := FromConfig(config.New().Prefix("MT_"))
	if got.Generator.BaseURL != "http://gpu-box:11434" {
		t.Fatalf("base url = %q", got.Generator.BaseURL)
	}
	if got.Placeholder != "[MODERATED]" || got.Generator.Model != "llama3.2" || got.Generator.MaxTokens != 200 {
		t.Fatalf("defaults = %+v", got)
	}

	t.Setenv("MT_GENERATOR_URL", "http://explicit:1")
	t.Setenv("MT_GENERATOR_TIMEOUT", "5s")
	got = FromConfig(config.New().Prefix("MT_"))
	if got.Generator.BaseURL != "http://explicit:1" || got.Generator.Timeout != 5*time.Second {
		t.Fatalf("explicit = %+v", got.Generator)
	}
}

func TestNew_RequiresPorts(t *testing.T) {
	t.Parallel()

	testkit.MustPanic(t, func() { New(modkit.Deps{}, Options{}) })
	testkit.MustPanic(t, func() { New(modkit.Deps{}, Options{}, modkit.WithPorts(dom.Ports{})) })
}

func TestModerate_RewritesThroughGenerator(t *testing.T) {
	gen := fakeOllama(t, "  You are being unkind.  ")
	st := denylist.New()
	st.Replace([]string{"stupid"})
	rec := &recorder{}

	m := New(modkit.Deps{Cfg: config.New().Prefix("MT_")},
		Options{Generator: optsFor(gen.URL)},
		modkit.WithPorts(dom.Ports{Terms: st, Recorder: rec}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodPost, "/moderation/moderate", strings.NewReader(`{"text":"You are stupid. Have a nice day."}`))
	req.Header.Set("Content-Type", "application/json")
	mount(m).ServeHTTP(w, req)

	if w.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var out dom.ModerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Changes) != 1 || out.Changes[0].Revised != "You are being unkind." || out.Changes[0].Method != dom.MethodRewrite {
		t.Fatalf("changes = %+v", out.Changes)
	}
	if len(rec.got) != 1 || rec.got[0].Original != "You are stupid. Have a nice day." {
		t.Fatalf("recorded = %+v", rec.got)
	}
}

func TestStatus_ReportsGeneratorAndTerms(t *testing.T) {
	gen := fakeOllama(t, "x")
	dl := dlmodule.New(modkit.Deps{Cfg: config.New().Prefix("MT_")}, dlmodule.Options{Path: t.TempDir() + "/none.txt", NoWatch: true})
	dl.Store().Replace([]string{"idiot", "dumb"})

	m := New(modkit.Deps{Cfg: config.New().Prefix("MT_")},
		Options{Generator: optsFor(gen.URL)},
		WithDepsModules(dl, nil))

	w := httptest.NewRecorder()
	mount(m).ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/moderation/status", nil))
	testkit.MustContain(t, w.Body.String(), `"available":true`)
	testkit.MustContain(t, w.Body.String(), `"terms_loaded":2`)

	p, ok := m.Ports().(Ports)
	if !ok || p.Service == nil || p.Prober == nil {
		t.Fatalf("ports = %#v", m.Ports())
	}
}

func TestMerge_OverridesWin(t *testing.T) {
	t.Parallel()

	base := Options{Placeholder: "[MODERATED]", MaxBytes: 10}
	base.Generator.Model = "llama3.2"
	var o Options
	o.Placeholder = "***"
	o.Generator.Model = "mistral"
	got := merge(base, o)
	if got.Placeholder != "***" || got.MaxBytes != 10 || got.Generator.Model != "mistral" {
		t.Fatalf("merge = %+v", got)
	}
}

func TestGeneratorTemperature(t *testing.T) {
	cases := []struct {
		name     string
		env      string
		override *float64
		want     float64
	}{
		{name: "default", want: 0.3},
		{name: "env zero kept", env: "0", want: 0},
		{name: "env value", env: "0.8", want: 0.8},
		{name: "override zero wins", env: "0.8", override: ollama.Temperature(0), want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MT_GENERATOR_TEMPERATURE", tc.env)
			var o Options
			o.Generator.Temperature = tc.override
			got := merge(FromConfig(config.New().Prefix("MT_")), o).Generator.Temperature
			if got == nil || *got != tc.want {
				t.Fatalf("temperature = %v want %v", got, tc.want)
			}
		})
	}
}

func optsFor(url string) (o ollama.Options) {
	o.BaseURL = url
	o.Timeout = 2 * time.Second
	o.ProbeTimeout = time.Second
	return o
}
