// Package create реализует HTTP-обработчик создания курса.
//
// Обложка приходит в multipart поле thumbnail и проверяется middleware
// SingleFile до вызова обработчика.
package create

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

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

// Request поля нового курса.
type Request struct {
	Title       string `json:"title" form:"title" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required,min=8"`
	Category    string `json:"category" form:"category" validate:"required"`
}

func (req *Request) trim() {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
}

// Service описывает бизнес-логику.
type Service interface {
	CreateCourse(ctx context.Context, user *models.User, in catalog.CourseInput) (*models.Course, error)
}

// Handler обработчик создания курса.
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
// @Summary Создать курс
// @Description Курс администратора сразу одобрен, курс преподавателя ждёт модерации.
// @Tags Course
// @Accept mpfd
// @Produce json
// @Param title formData string true "Название"
// @Param description formData string true "Описание, от 8 символов"
// @Param category formData string true "Категория"
// @Param thumbnail formData file false "Обложка"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /course [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.create"
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
	req.trim()
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	thumb, _ := upload.FromContext(r.Context())
	course, err := h.service.CreateCourse(r.Context(), user, catalog.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Thumbnail:   thumb,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("Course created successfully", course))
}
