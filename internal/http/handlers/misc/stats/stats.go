// Package stats отдаёт администратору счётчики пользователей.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Service описывает бизнес-логику.
type Service interface {
	Users(ctx context.Context) (models.UserStats, error)
}

// Handler обработчик статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика пользователей
// @Tags Misc
// @Produce json
// @Success 200 {object} models.UserStats
// @Failure 403 {object} response.ErrorResponse
// @Router /stats/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.misc.stats"
	log := sl.ForRequest(h.log, op, r)

	st, err := h.service.Users(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"success":         true,
		"message":         "Stats",
		"allUsersCount":   st.AllUsersCount,
		"subscribedCount": st.SubscribedCount,
	})
}
