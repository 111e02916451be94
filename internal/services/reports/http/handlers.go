// Package http provides read access to stored reports
package http

import (
	stdhttp "net/http"
	"strconv"

	"rephraser/internal/modkit/httpkit"
	perr "rephraser/internal/platform/errors"
	dom "rephraser/internal/services/reports/domain"

	"github.com/go-chi/chi/v5"
)

// Register mounts the report history endpoints
func Register(r httpkit.Router, rd dom.ReaderPort) {
	h := &handlers{rd: rd}
	httpkit.Get(r, "/", h.recent)
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ rd dom.ReaderPort }

// swagger:route GET /reports Reports reportsRecent
// @Summary Most recent moderation reports
// @Tags Reports
// @Produce json
// @Param limit query int false "1..200, default 50"
// @Success 200 {array} domain.Summary "ok"
// @Router /reports [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "limit must be a number"), "limit")
		}
		limit = n
	}
	return h.rd.Recent(r.Context(), limit)
}

// swagger:route GET /reports/{id} Reports reportsGet
// @Summary One stored report
// @Tags Reports
// @Produce json
// @Param id path string true "report id"
// @Success 200 {object} domain.Report "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /reports/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.rd.Get(r.Context(), chi.URLParam(r, "id"))
}
