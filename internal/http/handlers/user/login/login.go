// Package login реализует HTTP-обработчик входа по email и паролю.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/http/cookie"
	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Request входные данные для входа.
type Request struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// Handler обработчик входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookie   config.Cookie
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, cookieCfg config.Cookie) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookie:   cookieCfg,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход
// @Description Проверяет email и пароль, выставляет cookie сессии.
// @Tags User
// @Accept json
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Email or password does not match"
// @Router /user/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.login"
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

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	cookie.SetSession(w, h.cookie, token)
	log.Info("user logged in", slog.String("user_id", user.ID))
	render.JSON(w, r, response.OKWithUser("User loggedin successfully", user))
}
