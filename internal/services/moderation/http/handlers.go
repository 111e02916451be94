// Package http provides the moderation endpoints
package http

import (
	stdhttp "net/http"

	"rephraser/internal/modkit/httpkit"
	dom "rephraser/internal/services/moderation/domain"
)

// Options tune the transport
type Options struct {
	// MaxBytes caps the request body, zero means 1 MiB
	MaxBytes int64
}

// Register mounts moderation endpoints on the given router
func Register(r httpkit.Router, s dom.ServicePort, o Options) {
	h := &handlers{svc: s, maxBytes: o.MaxBytes}
	r.Post("/moderate", httpkit.Handle(h.moderate))
	r.Get("/status", httpkit.Handle(h.status))
}

type handlers struct {
	svc      dom.ServicePort
	maxBytes int64
}

// swagger:route POST /moderation/moderate Moderation moderationModerate
// @Summary Moderate a block of text
// @Description Splits the text into sentences and revises every sentence containing a denylist term
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.ModerateInput true "Text to moderate"
// @Success 200 {object} domain.ModerateResponse "changes, empty when nothing matched"
// @Failure 400 {object} httpkit.Envelope "text missing or body malformed"
// @Router /moderation/moderate [post]
func (h *handlers) moderate(r *stdhttp.Request) httpkit.Response {
	in, err := httpkit.Decode[dom.ModerateInput](r, h.maxBytes)
	if err != nil {
		return httpkit.Error(err)
	}
	rep, err := h.svc.Moderate(r.Context(), in.Text)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Bare(dom.ModerateResponse{Changes: rep.Changes})
}

// swagger:route GET /moderation/status Moderation moderationStatus
// @Summary Generator availability and loaded term count
// @Tags Moderation
// @Produce json
// @Success 200 {object} domain.StatusResponse "always 200"
// @Router /moderation/status [get]
func (h *handlers) status(r *stdhttp.Request) httpkit.Response {
	return httpkit.Bare(h.svc.Status(r.Context()))
}
