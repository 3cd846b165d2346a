// Package mycourses отдаёт курсы, созданные текущим пользователем.
package mycourses

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Service описывает бизнес-логику.
type Service interface {
	MyCourses(ctx context.Context, user *models.User) ([]models.Course, error)
}

// Handler обработчик списка своих курсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои курсы
// @Tags Course
// @Produce json
// @Success 200 {object} response.Response
// @Router /course/mycourses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.mycourses"
	log := sl.ForRequest(h.log, op, r)

	user, ok := middlewarectx.CurrentUser(w, r)
	if !ok {
		return
	}
	courses, err := h.service.MyCourses(r.Context(), user)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("My courses", courses))
}
