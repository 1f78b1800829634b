package meta

import (
	"net/http"

	"hallseat/internal/domains/meta"
	"hallseat/shared/constant"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct{}

func New() Handler {
	return Handler{}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/meta", func(r chi.Router) {
		r.Get("/statuses", handler.GetStatuses)
		r.Get("/navigation", handler.GetNavigation)
	})
}

// GetStatuses returns the status badge tables
// @Summary Status metadata
// @Description Status and priority values with their badge colors.
// @Tags Meta
// @Produce json
// @Success 200 {object} response.Data[meta.StatusesResponse]
// @Router /v1/meta/statuses [get]
func (handler *Handler) GetStatuses(w http.ResponseWriter, _ *http.Request) {
	response.WithJSON(w, http.StatusOK, meta.Statuses())
}

// GetNavigation returns the sections available to the caller's role
// @Summary Navigation sections
// @Tags Meta
// @Produce json
// @Success 200 {object} response.Data[[]meta.Section]
// @Failure 401 {object} response.Error
// @Router /v1/meta/navigation [get]
// @Security BearerAuth
func (handler *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

	response.WithJSON(w, http.StatusOK, meta.Navigation(role))
}
