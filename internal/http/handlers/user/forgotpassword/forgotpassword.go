// Package forgotpassword выпускает токен сброса пароля и отправляет ссылку письмом.
package forgotpassword

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
)

// Request email учётной записи.
type Request struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// Service описывает бизнес-логику.
type Service interface {
	ForgotPassword(ctx context.Context, email string) error
}

// Handler обработчик запроса сброса.
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
// @Summary Забыли пароль
// @Tags User
// @Accept json
// @Produce json
// @Param request body Request true "Email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Email not registered"
// @Router /user/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.forgotpassword"
	log := sl.ForRequest(h.log, op, r)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, r, "Email is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK("Reset password token has been sent to "+req.Email+" successfully"))
}
