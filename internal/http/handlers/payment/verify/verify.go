// Package verify подтверждает оплату подписки по подписи шлюза.
package verify

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
	"github.com/magabrotheeeer/lms-server/internal/services/subscription"
)

// Request данные, которые виджет шлюза возвращает после оплаты.
type Request struct {
	PaymentID      string `json:"razorpay_payment_id" form:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" form:"razorpay_signature" validate:"required"`
	SubscriptionID string `json:"razorpay_subscription_id" form:"razorpay_subscription_id"`
}

// Service описывает бизнес-логику.
type Service interface {
	Verify(ctx context.Context, user *models.User, in subscription.VerifyInput) error
}

// Handler обработчик подтверждения оплаты.
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
// @Summary Подтвердить оплату
// @Description Подпись проверяется по сохранённому на сервере id подписки.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body Request true "Ответ шлюза"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Payment not verified, please try again"
// @Failure 409 {object} response.ErrorResponse
// @Router /payment/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
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

	err := h.service.Verify(r.Context(), user, subscription.VerifyInput{
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
		SubscriptionID: req.SubscriptionID,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK("Payment verified successfully"))
}
