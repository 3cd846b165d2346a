// Package update частично обновляет курс.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

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

// Request изменяемые поля, все необязательны.
type Request struct {
	Title       string `json:"title" form:"title" validate:"max=100"`
	Description string `json:"description" form:"description" validate:"omitempty,min=8"`
	Category    string `json:"category" form:"category"`
}

func (req *Request) trim() {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
}

// Service описывает бизнес-логику.
type Service interface {
	UpdateCourse(ctx context.Context, user *models.User, id string, in catalog.CourseInput) (*models.Course, error)
}

// Handler обработчик обновления курса.
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
// @Summary Обновить курс
// @Description Доступно автору курса и администратору.
// @Tags Course
// @Accept mpfd,json
// @Produce json
// @Param id path string true "ID курса"
// @Param title formData string false "Название"
// @Param description formData string false "Описание"
// @Param category formData string false "Категория"
// @Param thumbnail formData file false "Обложка"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /course/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.update"
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
	req.trim()
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	thumb, _ := upload.FromContext(r.Context())
	course, err := h.service.UpdateCourse(r.Context(), user, chi.URLParam(r, "id"), catalog.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Thumbnail:   thumb,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("Course updated successfully", course))
}
