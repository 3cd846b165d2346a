// Package changepassword меняет пароль текущего пользователя.
package changepassword

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Request старый и новый пароль.
type Request struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required,min=8"`
}

// Service описывает бизнес-логику.
type Service interface {
	ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error
}

// Handler обработчик смены пароля.
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
// @Summary Смена пароля
// @Tags User
// @Accept json
// @Produce json
// @Param request body Request true "Пароли"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Old password is incorrect"
// @Failure 401 {object} response.ErrorResponse
// @Router /user/change-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.changepassword"
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

	if err := h.service.ChangePassword(r.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("password changed", slog.String("user_id", user.ID))
	render.JSON(w, r, response.OK("Password changed successfully"))
}
