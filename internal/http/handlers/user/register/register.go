// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Принимает JSON или multipart форму с необязательным аватаром, создаёт
// пользователя с ролью USER и сразу открывает сессию через cookie.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/http/cookie"
	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/upload"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/services/auth"
)

// Request входные данные для регистрации.
type Request struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, string, error)
}

// Handler обработчик регистрации.
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
// @Summary Регистрация
// @Description Создаёт пользователя с ролью USER и выставляет cookie сессии.
// @Tags User
// @Accept json,mpfd
// @Produce json
// @Param request body Request true "Данные пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Failure 502 {object} response.ErrorResponse "Медиахостинг недоступен"
// @Router /user/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.register"
	log := sl.ForRequest(h.log, op, r)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		if errors.Is(err, request.ErrEmptyBody) {
			response.BadRequest(w, r, "All fields are required")
			return
		}
		log.Info("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	avatar, _ := upload.FromContext(r.Context())
	user, token, err := h.service.Register(r.Context(), auth.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   avatar,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	cookie.SetSession(w, h.cookie, token)
	log.Info("user registered", slog.String("user_id", user.ID))
	render.JSON(w, r, response.OKWithUser("User registered successfully", user))
}
