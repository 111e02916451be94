package service

import (
	"context"
	"reflect"
	"testing"

	"rephraser/internal/core/denylist"
	"rephraser/internal/platform/testkit"
)

type loads struct{ sources []string }

func (l *loads) DenylistLoad(source string, err error) {
	if err == nil {
		l.sources = append(l.sources, source)
	}
}

func TestReplaceThenList(t *testing.T) {
	t.Parallel()

	obs := &loads{}
	s := New(denylist.New(), obs)

	got := s.Replace(context.Background(), "Idiot\r\n  shut up \n\nidiot\ndumb")
	if !got.Success || got.Count != 3 {
		t.Fatalf("Replace = %+v", got)
	}
	list := s.List(context.Background())
	if !reflect.DeepEqual(list.Terms, []string{"shut up", "idiot", "dumb"}) || list.Count != 3 {
		t.Fatalf("List = %+v", list)
	}
	if !reflect.DeepEqual(obs.sources, []string{"http"}) {
		t.Fatalf("observed %v", obs.sources)
	}
}

func TestReplace_EmptyClears(t *testing.T) {
	t.Parallel()

	st := denylist.New()
	st.Replace([]string{"stupid"})
	s := New(st, nil)

	if got := s.Replace(context.Background(), ""); !got.Success || got.Count != 0 {
		t.Fatalf("Replace = %+v", got)
	}
	if l := s.List(context.Background()); l.Count != 0 || len(l.Terms) != 0 {
		t.Fatalf("List = %+v", l)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	t.Parallel()

	st := denylist.New()
	st.Replace([]string{"dumb"})
	s := New(st, nil)

	l := s.List(context.Background())
	l.Terms[0] = "changed"
	if st.Current()[0] != "dumb" {
		t.Fatal("List leaked the store slice")
	}
}

func TestNew_NilStorePanics(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { New(nil, nil) })
}
