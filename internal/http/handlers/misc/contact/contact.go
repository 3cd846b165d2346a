// Package contact принимает форму обратной связи.
package contact

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Request поля формы.
type Request struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Message string `json:"message" form:"message" validate:"required"`
}

// Service описывает бизнес-логику.
type Service interface {
	Submit(ctx context.Context, name, email, message string) (*models.Contact, error)
}

// Handler обработчик обратной связи.
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
// @Summary Обратная связь
// @Tags Misc
// @Accept json
// @Produce json
// @Param request body Request true "Сообщение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /contact [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.misc.contact"
	log := sl.ForRequest(h.log, op, r)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, r, "All fields are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	if _, err := h.service.Submit(r.Context(), req.Name, req.Email, req.Message); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK("Contact form submitted successfully"))
}
