// Package subscribe покупает подписку для текущего пользователя.
package subscribe

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
	Subscribe(ctx context.Context, user *models.User) (string, error)
}

// Handler обработчик покупки подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Купить подписку
// @Description Создаёт подписку в Razorpay и возвращает её id для клиентского виджета.
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Admin can not purchase a subscription"
// @Failure 502 {object} response.ErrorResponse
// @Router /payment/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.subscribe"
	log := sl.ForRequest(h.log, op, r)

	user, ok := middlewarectx.CurrentUser(w, r)
	if !ok {
		return
	}
	id, err := h.service.Subscribe(r.Context(), user)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.Response{Success: true, Message: "Subscribed successfully", SubscriptionID: id})
}
