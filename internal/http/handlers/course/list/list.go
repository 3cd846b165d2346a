// Package list отдаёт публичный каталог одобренных курсов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Service описывает бизнес-логику каталога.
type Service interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
}

// Handler обработчик каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог курсов
// @Description Одобренные курсы без лекций.
// @Tags Course
// @Produce json
// @Success 200 {object} response.Response
// @Router /course [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"
	log := sl.ForRequest(h.log, op, r)

	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("All courses", courses))
}
