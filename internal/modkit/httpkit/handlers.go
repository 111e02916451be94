// Package httpkit is what service modules use to build handlers and mount routes
// so none of them import the platform http package directly
package httpkit

import (
	"net/http"

	phttp "rephraser/internal/platform/net/http"
	"rephraser/internal/platform/net/http/bind"
)

type (
	Envelope = phttp.Envelope
	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router
)

// Bare is a 200 written without the envelope
func Bare(data any) Response { return phttp.Bare(data) }

// Error is the error envelope for err
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response returning func
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Get mounts a value returning handler under GET, plain values are enveloped
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, phttp.HandleValue(fn))
}

// Decode binds the JSON body into T, ignoring unknown fields
// maxBytes at or below zero means bind.DefaultMaxBytes
func Decode[T any](r *http.Request, maxBytes int64) (T, error) {
	return bind.JSON[T](r, bind.Options{MaxBytes: maxBytes})
}
