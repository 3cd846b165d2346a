// Package update частично обновляет лекцию.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/upload"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/services/catalog"
)

// Request изменяемые поля, все необязательны.
type Request struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// Service описывает бизнес-логику.
type Service interface {
	UpdateLecture(ctx context.Context, user *models.User, courseID, lectureID string, in catalog.LectureInput) (*models.Lecture, error)
}

// Handler обработчик обновления лекции.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить лекцию
// @Tags Lecture
// @Accept mpfd,json
// @Produce json
// @Param courseId path string true "ID курса"
// @Param lectureId path string true "ID лекции"
// @Param title formData string false "Название"
// @Param description formData string false "Описание"
// @Param lecture formData file false "Видео"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /course/lectures/{courseId}/{lectureId} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lecture.update"
	log := sl.ForRequest(h.log, op, r)

	user, ok := middlewarectx.CurrentUser(w, r)
	if !ok {
		return
	}
	var req Request
	if err := request.Decode(r, &req); err != nil && !errors.Is(err, request.ErrEmptyBody) {
		response.BadRequest(w, r, "Invalid request body")
		return
	}

	file, _ := upload.FromContext(r.Context())
	lecture, err := h.service.UpdateLecture(r.Context(), user,
		chi.URLParam(r, "courseId"), chi.URLParam(r, "lectureId"),
		catalog.LectureInput{Title: req.Title, Description: req.Description, Media: file})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("Lecture updated successfully", lecture))
}
