// Package middlewarectx содержит HTTP middleware аутентификации и авторизации.
//
// Authenticate достаёт сессионный токен из cookie (или заголовка Authorization),
// проверяет подпись и перечитывает пользователя из хранилища, чтобы роль
// и подписка всегда были актуальными. Пользователь кладётся в контекст запроса,
// RequireRoles и RequireSubscription читают его оттуда.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User ключ пользователя в контексте.
const User Key = "user"

// TokenParser проверяет сессионный токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserLoader загружает пользователя по id.
type UserLoader interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

const unauthenticated = "Unauthenticated, please login again"

// Authenticate возвращает middleware, который пропускает только запросы с валидной сессией.
func Authenticate(log *slog.Logger, tokens TokenParser, users UserLoader, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			log := sl.ForRequest(log, op, r)

			tokenStr := tokenFromRequest(r, cookieName)
			if tokenStr == "" {
				log.Info("missing session token")
				reject(w, r, http.StatusUnauthorized, unauthenticated)
				return
			}

			claims, err := tokens.ParseToken(tokenStr)
			if err != nil {
				log.Info("invalid session token", sl.Err(err))
				reject(w, r, http.StatusUnauthorized, unauthenticated)
				return
			}

			user, err := users.UserByID(r.Context(), claims.UserID)
			if err != nil && apperr.StatusCode(err) != http.StatusNotFound {
				response.Fail(w, r, log, err)
				return
			}
			if err != nil || !user.IsActive {
				log.Info("session user unavailable", slog.String("user_id", claims.UserID), sl.Err(err))
				reject(w, r, http.StatusUnauthorized, unauthenticated)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser кладёт пользователя в контекст.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, User, user)
}

// UserFromContext возвращает пользователя, положенного Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, response.Error(msg))
}

// CurrentUser возвращает пользователя запроса или отвечает 401, если его нет.
func CurrentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		reject(w, r, http.StatusUnauthorized, unauthenticated)
	}
	return user, ok
}
