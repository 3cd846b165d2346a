// Package key отдаёт публичный ключ платёжного шлюза.
package key

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/response"
)

// Service описывает бизнес-логику.
type Service interface {
	Key() string
}

// Handler обработчик ключа.
type Handler struct {
	service Service
}

// New создает новый Handler.
func New(service Service) *Handler {
	return &Handler{service: service}
}

// ServeHTTP godoc
// @Summary Публичный ключ Razorpay
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Response
// @Router /payment/razorpay-key [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.Response{Success: true, Message: "Razorpay API key", Key: h.service.Key()})
}
