// Package get отдаёт курс вместе с лекциями.
package get

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
	GetCourse(ctx context.Context, user *models.User, id string) (*models.Course, error)
}

// Handler обработчик карточки курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Курс
// @Tags Course
// @Produce json
// @Param id path string true "ID курса"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Нет подписки"
// @Failure 404 {object} response.ErrorResponse "Course not found"
// @Router /course/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.get"
	log := sl.ForRequest(h.log, op, r)

	user, ok := middlewarectx.CurrentUser(w, r)
	if !ok {
		return
	}
	course, err := h.service.GetCourse(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("Course details", course))
}
