// Package cookie выставляет и сбрасывает cookie с сессионным токеном.
package cookie

import (
	"net/http"

	"github.com/magabrotheeeer/lms-server/internal/config"
)

// SetSession записывает токен в HttpOnly cookie.
func SetSession(w http.ResponseWriter, cfg config.Cookie, token string) {
	http.SetCookie(w, session(cfg, token, int(cfg.CookieMaxAge.Seconds())))
}

// ClearSession просит браузер удалить cookie сессии.
func ClearSession(w http.ResponseWriter, cfg config.Cookie) {
	http.SetCookie(w, session(cfg, "", -1))
}

func session(cfg config.Cookie, value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cfg.CookieSecure {
		// фронтенд на другом домене
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: sameSite,
	}
}
