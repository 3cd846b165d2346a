// Package all отдаёт администратору платежи и подписки из шлюза.
package all

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/services/subscription"
)

// Service описывает бизнес-логику.
type Service interface {
	AllPayments(ctx context.Context, count int) (*subscription.Payments, error)
}

// Handler обработчик отчёта по платежам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все платежи
// @Tags Payment
// @Produce json
// @Param count query int false "Сколько подписок взять из шлюза" default(10)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /payment [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.all"
	log := sl.ForRequest(h.log, op, r)

	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			response.BadRequest(w, r, "count must be between 1 and 100")
			return
		}
		count = n
	}

	payments, err := h.service.AllPayments(r.Context(), count)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData("All payments", payments))
}
