// Package resetpassword устанавливает новый пароль по токену из письма.
package resetpassword

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
)

// Request новый пароль.
type Request struct {
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// Service описывает бизнес-логику.
type Service interface {
	ResetPassword(ctx context.Context, token, password string) error
}

// Handler обработчик сброса пароля.
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
// @Summary Сброс пароля
// @Tags User
// @Accept json
// @Produce json
// @Param token path string true "Токен из письма"
// @Param request body Request true "Новый пароль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Token is invalid or expired, please try again"
// @Router /user/reset-password/{token} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.resetpassword"
	log := sl.ForRequest(h.log, op, r)

	token := chi.URLParam(r, "token")
	var req Request
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, r, "Password is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK("Password changed successfully"))
}
