// Package remove мягко удаляет курс.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Service описывает бизнес-логику.
type Service interface {
	DeleteCourse(ctx context.Context, user *models.User, id string) error
}

// Handler обработчик удаления курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить курс
// @Tags Course
// @Produce json
// @Param id path string true "ID курса"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /course/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.remove"
	log := sl.ForRequest(h.log, op, r)

	user, ok := middlewarectx.CurrentUser(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK("Course deleted successfully"))
}
