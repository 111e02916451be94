// Package http is the server side of the platform: router, server and response writing
package http

import (
	"cmp"
	"encoding/json"
	"net/http"

	pnet "rephraser/internal/platform/net"
)

// Envelope is the body of every enveloped response
type Envelope = pnet.Wire

// Response is what return style handlers produce
// an error Body decides its own status and is always enveloped
type Response struct {
	Status int
	Body   any
	Header http.Header
	// Bare writes a successful Body as is
	Bare bool
}

// OK is a 200 with data in the envelope
func OK(data any) Response { return Response{Status: http.StatusOK, Body: data} }

// Bare is a 200 whose body is data itself
func Bare(data any) Response { return Response{Status: http.StatusOK, Body: data, Bare: true} }

// Error maps err to its status and error envelope
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a Response returning func to net/http
func Handle(h func(*http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h(r).write(w, r) }
}

// HandleValue adapts a func that returns a value or an error
// a Response value passes through, anything else goes through OK
func HandleValue(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}

// WriteJSON writes v as the JSON body under status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (resp Response) write(w http.ResponseWriter, r *http.Request) {
	for k, vv := range resp.Header {
		w.Header()[k] = append(w.Header()[k], vv...)
	}
	status, body := resp.payload(pnet.RequestID(r.Context()))
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, body)
}

func (resp Response) payload(reqID string) (int, any) {
	if err, ok := resp.Body.(error); ok && err != nil {
		return pnet.Error(err, reqID)
	}
	status := cmp.Or(resp.Status, http.StatusOK)
	if resp.Bare || status == http.StatusNoContent {
		return status, resp.Body
	}
	return status, pnet.Success(status, resp.Body, reqID)
}
