// Package create добавляет лекцию в курс. Видео приходит в multipart поле lecture.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/upload"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/services/catalog"
)

// Request поля лекции.
type Request struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
}

// Service описывает бизнес-логику.
type Service interface {
	AddLecture(ctx context.Context, user *models.User, courseID string, in catalog.LectureInput) (*models.Lecture, error)
}

// Handler обработчик добавления лекции.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить лекцию
// @Tags Lecture
// @Accept mpfd
// @Produce json
// @Param courseId path string true "ID курса"
// @Param title formData string true "Название"
// @Param description formData string true "Описание"
// @Param lecture formData file true "Видео"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /course/lectures/{courseId} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lecture.create"
	log := sl.ForRequest(h.log, op, r)

	user, ok := middlewarectx.CurrentUser(w, r)
	if !ok {
		return
	}
	var req Request
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, r, "All fields are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	file, _ := upload.FromContext(r.Context())
	lecture, err := h.service.AddLecture(r.Context(), user, chi.URLParam(r, "courseId"), catalog.LectureInput{
		Title:       req.Title,
		Description: req.Description,
		Media:       file,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("Lecture added successfully", lecture))
}
