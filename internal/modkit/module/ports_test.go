package module

import (
	"strings"
	"testing"

	"rephraser/internal/modkit/httpkit"
	"rephraser/internal/platform/testkit"
)

type termSource interface{ Terms() []string }

type recorder interface{ Record(id string) }

type staticTerms []string

func (s staticTerms) Terms() []string { return s }

type noopRecorder struct{}

func (noopRecorder) Record(string) {}

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string               { return m.name }
func (m fakeModule) Ports() any                 { return m.ports }
func (m fakeModule) MountRoutes(httpkit.Router) {}

type bundle struct {
	Terms    termSource
	Recorder recorder
	hidden   termSource
	Count    int
}

func TestPortsOf_Table(t *testing.T) {
	t.Parallel()

	terms := staticTerms{"stupid"}
	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil ports", nil, false},
		{"direct", terms, true},
		{"struct field", bundle{Terms: terms}, true},
		{"pointer to struct", &bundle{Terms: terms}, true},
		{"nil field skipped", bundle{Recorder: noopRecorder{}}, false},
		{"unexported field ignored", bundle{hidden: terms}, false},
		{"nil pointer", (*bundle)(nil), false},
		{"unrelated value", 42, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := PortsOf[termSource](fakeModule{name: "denylist", ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v", ok)
			}
			if ok && got.Terms()[0] != "stupid" {
				t.Fatalf("got %v", got.Terms())
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "reports", ports: bundle{Recorder: noopRecorder{}}}
	if _, ok := MustPortsOf[recorder](m).(noopRecorder); !ok {
		t.Fatal("recorder not found")
	}

	msg := testkit.MustPanic(t, func() { MustPortsOf[termSource](m) })
	if !strings.Contains(msg, "reports") || !strings.Contains(msg, "termSource") {
		t.Fatalf("panic message = %q", msg)
	}
}
