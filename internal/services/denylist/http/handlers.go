// Package http provides the denylist endpoints
package http

import (
	"errors"
	"io"
	"mime"
	stdhttp "net/http"

	"rephraser/internal/modkit/httpkit"
	perr "rephraser/internal/platform/errors"
	dom "rephraser/internal/services/denylist/domain"
)

// DefaultMaxBytes caps an uploaded list
const DefaultMaxBytes = 1 << 20

// Options tune the transport
type Options struct {
	// MaxBytes caps the POST body, zero means DefaultMaxBytes
	MaxBytes int64
}

// Register mounts denylist endpoints on the given router
func Register(r httpkit.Router, s dom.ServicePort, o Options) {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	h := &handlers{svc: s, maxBytes: o.MaxBytes}
	r.Get("/", httpkit.Handle(h.list))
	r.Post("/", httpkit.Handle(h.replace))
}

type handlers struct {
	svc      dom.ServicePort
	maxBytes int64
}

// swagger:route GET /denylist Denylist denylistList
// @Summary Active denylist terms
// @Description Terms are lowercased, deduplicated and ordered longest first
// @Tags Denylist
// @Produce json
// @Success 200 {object} domain.ListResponse "ok"
// @Router /denylist [get]
func (h *handlers) list(r *stdhttp.Request) httpkit.Response {
	return httpkit.Bare(h.svc.List(r.Context()))
}

// swagger:route POST /denylist Denylist denylistReplace
// @Summary Replace the denylist
// @Description One term per line, an empty body clears the list
// @Tags Denylist
// @Accept plain
// @Produce json
// @Param payload body string true "newline delimited terms"
// @Success 200 {object} domain.ReplaceResponse "ok"
// @Failure 400 {object} httpkit.Envelope "not text/plain or too large"
// @Router /denylist [post]
func (h *handlers) replace(r *stdhttp.Request) httpkit.Response {
	if !plainText(r.Header.Get("Content-Type")) {
		return httpkit.Error(perr.New(perr.ErrorCodeValidation, "expected plain text"))
	}
	body, err := io.ReadAll(stdhttp.MaxBytesReader(nil, r.Body, h.maxBytes))
	if err != nil {
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return httpkit.Error(perr.Newf(perr.ErrorCodeValidation, "denylist exceeds %d bytes", h.maxBytes))
		}
		return httpkit.Error(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read body"))
	}
	return httpkit.Bare(h.svc.Replace(r.Context(), string(body)))
}

func plainText(ct string) bool {
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "text/plain"
}
