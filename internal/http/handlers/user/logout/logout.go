// Package logout сбрасывает cookie сессии.
package logout

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/http/cookie"
	"github.com/magabrotheeeer/lms-server/internal/http/response"
)

// Handler обработчик выхода.
type Handler struct {
	cookie config.Cookie
}

// New создает новый Handler.
func New(cookieCfg config.Cookie) *Handler {
	return &Handler{cookie: cookieCfg}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags User
// @Produce json
// @Success 200 {object} response.Response
// @Router /user/logout [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookie.ClearSession(w, h.cookie)
	render.JSON(w, r, response.OK("User logged out successfully"))
}
