// Package updateme обновляет имя и аватар текущего пользователя.
package updateme

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/http/request"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/upload"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Request новое имя, необязательно.
type Request struct {
	FullName string `json:"fullName" form:"fullName" validate:"max=50"`
}

// Service описывает бизнес-логику.
type Service interface {
	UpdateProfile(ctx context.Context, user *models.User, fullName string, avatar *multipart.FileHeader) (*models.User, error)
}

// Handler обработчик обновления профиля.
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
// @Summary Обновить профиль
// @Tags User
// @Accept mpfd,json
// @Produce json
// @Param fullName formData string false "Полное имя"
// @Param avatar formData file false "Аватар"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /user/update-me [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.updateme"
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
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	avatar, _ := upload.FromContext(r.Context())
	updated, err := h.service.UpdateProfile(r.Context(), user, req.FullName, avatar)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithUser("User details updated successfully", updated))
}
