// Package get отдаёт одну лекцию курса.
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
	GetLecture(ctx context.Context, user *models.User, courseID, lectureID string) (*models.Lecture, error)
}

// Handler обработчик лекции.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Лекция
// @Tags Lecture
// @Produce json
// @Param courseId path string true "ID курса"
// @Param lectureId path string true "ID лекции"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Lecture not found"
// @Router /course/lectures/{courseId}/{lectureId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lecture.get"
	log := sl.ForRequest(h.log, op, r)

	user, ok := middlewarectx.CurrentUser(w, r)
	if !ok {
		return
	}
	lecture, err := h.service.GetLecture(r.Context(), user, chi.URLParam(r, "courseId"), chi.URLParam(r, "lectureId"))
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("Lecture details", lecture))
}
