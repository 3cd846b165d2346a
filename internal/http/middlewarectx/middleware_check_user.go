package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// RequireRoles пропускает только пользователей с одной из ролей.
func RequireRoles(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				reject(w, r, http.StatusUnauthorized, unauthenticated)
				return
			}
			if !slices.Contains(roles, user.Role) {
				sl.ForRequest(log, "middlewarectx.RequireRoles", r).
					Info("role not allowed", slog.String("role", string(user.Role)))
				reject(w, r, http.StatusForbidden, "You do not have permission to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSubscription пропускает администраторов и пользователей с активной подпиской.
func RequireSubscription(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				reject(w, r, http.StatusUnauthorized, unauthenticated)
				return
			}
			if !user.HasActiveSubscription() {
				sl.ForRequest(log, "middlewarectx.RequireSubscription", r).
					Info("subscription required", slog.String("user_id", user.ID))
				reject(w, r, http.StatusForbidden, "Please subscribe to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
