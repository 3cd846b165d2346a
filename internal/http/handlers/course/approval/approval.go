// Package approval меняет статус модерации курса.
package approval

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
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Request новый статус.
type Request struct {
	Status string `json:"status" form:"status" validate:"required,oneof=Pending Approved Declined"`
}

// Service описывает бизнес-логику.
type Service interface {
	SetApproval(ctx context.Context, id string, status models.ApprovalStatus) error
}

// Handler обработчик модерации.
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
// @Summary Модерация курса
// @Tags Course
// @Accept json
// @Produce json
// @Param id path string true "ID курса"
// @Param request body Request true "Статус"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /course/{id}/approval [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.approval"
	log := sl.ForRequest(h.log, op, r)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, r, "Status is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.SetApproval(r.Context(), id, models.ApprovalStatus(req.Status)); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("course status changed", slog.String("course_id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OK("Course status updated to "+req.Status))
}
