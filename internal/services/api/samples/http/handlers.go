// Package http provides http transport for samples
package http

import (
	stdhttp "net/http"

	"rephraser/internal/modkit/httpkit"
	svc "rephraser/internal/services/api/samples/service"
)

// Register mounts samples endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Get("/", httpkit.Handle(h.list))
}

type handlers struct{ svc svc.Service }

// swagger:route GET /samples Samples samplesList
// @Summary Demo inputs for the moderation UI
// @Description Returns the samples file as is, an empty array when it cannot be read
// @Tags Samples
// @Produce json
// @Success 200 {array} object "ok"
// @Router /samples [get]
func (h *handlers) list(r *stdhttp.Request) httpkit.Response {
	return httpkit.Bare(h.svc.List(r.Context()))
}
