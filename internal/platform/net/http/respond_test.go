package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "rephraser/internal/platform/errors"
	pnet "rephraser/internal/platform/net"
	phttp "rephraser/internal/platform/net/http"
)

func serve(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/denylist", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Table(t *testing.T) {
	t.Parallel()

	withHeader := phttp.OK("hello")
	withHeader.Header = http.Header{"X-Denylist-Version": {"7"}}
	bareErr := phttp.Error(perr.NotFoundf("report r-9 not found"))
	bareErr.Bare = true

	cases := []struct {
		name   string
		resp   phttp.Response
		status int
		body   string
	}{
		{"ok envelope", phttp.OK(map[string]bool{"available": true}), 200, `"data":{"available":true}`},
		{"bare", phttp.Bare(map[string]any{"terms": []string{"stupid"}, "count": 1}), 200, `{"count":1,"terms":["stupid"]}`},
		{"zero status is 200", phttp.Response{Body: "x"}, 200, `"status":"OK"`},
		{"no content", phttp.Response{Status: http.StatusNoContent, Body: "ignored"}, 204, ""},
		{"header", withHeader, 200, `"data":"hello"`},
		{"duplicate", phttp.Error(perr.New(perr.ErrorCodeDuplicateKey, "report exists")), 409, `"error":"report exists"`},
		{"validation field", phttp.Error(perr.WithField(perr.New(perr.ErrorCodeValidation, "text is a required field"), "text")), 400, `"field":"text"`},
		{"unavailable", phttp.Error(perr.Unavailablef("canceled")), 503, `"status_code":503`},
		{"foreign error", phttp.Error(errors.New("boom")), 500, `"error":"boom"`},
		{"bare error keeps envelope", bareErr, 404, `"status_code":404`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, phttp.Handle(func(*http.Request) phttp.Response { return tc.resp }))
			if rec.Code != tc.status {
				t.Fatalf("status = %d want %d", rec.Code, tc.status)
			}
			body := strings.TrimSpace(rec.Body.String())
			if tc.body == "" {
				if body != "" {
					t.Fatalf("body = %q, want none", body)
				}
				return
			}
			if !strings.Contains(body, tc.body) {
				t.Fatalf("body %s missing %s", body, tc.body)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Fatalf("content type = %q", ct)
			}
		})
	}
}

func TestHandle_EnvelopeFields(t *testing.T) {
	t.Parallel()

	resp := phttp.OK([]string{"idiot"})
	resp.Header = http.Header{"X-Denylist-Version": {"7"}}
	rec := serve(t, phttp.Handle(func(*http.Request) phttp.Response { return resp }))

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Error != "" {
		t.Fatalf("envelope = %+v", env)
	}
	if rec.Header().Get("X-Denylist-Version") != "7" {
		t.Fatalf("headers = %v", rec.Header())
	}
}

func TestHandleValue_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		fn     func(*http.Request) (any, error)
		status int
		body   string
	}{
		{"value enveloped", func(*http.Request) (any, error) { return map[string]int{"count": 2}, nil }, 200, `"data":{"count":2}`},
		{"response passes through", func(*http.Request) (any, error) { return phttp.Bare(map[string]int{"n": 3}), nil }, 200, `{"n":3}`},
		{"project error", func(*http.Request) (any, error) { return nil, perr.NotFoundf("report r-1 not found") }, 404, `report r-1 not found`},
		{"foreign error", func(*http.Request) (any, error) { return nil, errors.New("boom") }, 500, `"request_id":"rid-1"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, http.HandlerFunc(phttp.HandleValue(tc.fn)))
			if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("%d %s, want %d containing %s", rec.Code, rec.Body.String(), tc.status, tc.body)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	phttp.WriteJSON(rec, http.StatusTeapot, map[string]string{"k": "v"})
	if rec.Code != http.StatusTeapot || strings.TrimSpace(rec.Body.String()) != `{"k":"v"}` {
		t.Fatalf("%d %s", rec.Code, rec.Body.String())
	}
}
