package lms

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/lms-server/internal/config"
	// Регистрация swagger документации.
	_ "github.com/magabrotheeeer/lms-server/internal/docs"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/course/approval"
	coursecreate "github.com/magabrotheeeer/lms-server/internal/http/handlers/course/create"
	courseget "github.com/magabrotheeeer/lms-server/internal/http/handlers/course/get"
	courselist "github.com/magabrotheeeer/lms-server/internal/http/handlers/course/list"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/course/mycourses"
	courseremove "github.com/magabrotheeeer/lms-server/internal/http/handlers/course/remove"
	courseupdate "github.com/magabrotheeeer/lms-server/internal/http/handlers/course/update"
	lecturecreate "github.com/magabrotheeeer/lms-server/internal/http/handlers/lecture/create"
	lectureget "github.com/magabrotheeeer/lms-server/internal/http/handlers/lecture/get"
	lecturelist "github.com/magabrotheeeer/lms-server/internal/http/handlers/lecture/list"
	lectureremove "github.com/magabrotheeeer/lms-server/internal/http/handlers/lecture/remove"
	lectureupdate "github.com/magabrotheeeer/lms-server/internal/http/handlers/lecture/update"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/misc/contact"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/misc/stats"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/payment/all"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/payment/key"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/payment/subscribe"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/payment/unsubscribe"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/payment/verify"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/changepassword"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/forgotpassword"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/login"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/logout"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/me"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/register"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/resetpassword"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/updateme"
	"github.com/magabrotheeeer/lms-server/internal/http/handlers/user/users"
	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/models"
	authservice "github.com/magabrotheeeer/lms-server/internal/services/auth"
	"github.com/magabrotheeeer/lms-server/internal/services/catalog"
	contactservice "github.com/magabrotheeeer/lms-server/internal/services/contact"
	statsservice "github.com/magabrotheeeer/lms-server/internal/services/stats"
	"github.com/magabrotheeeer/lms-server/internal/services/subscription"
)

// Services сервисы, которые обслуживают HTTP маршруты.
type Services struct {
	Auth         *authservice.Service
	Catalog      *catalog.Service
	Subscription *subscription.Service
	Contact      *contactservice.Service
	Stats        *statsservice.Service
	Tokens       middlewarectx.TokenParser
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, cfg *config.Config, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.Metrics,
		cors.New(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler,
	)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "OPPS!! route not found", http.StatusNotFound)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	authn := middlewarectx.Authenticate(logger, s.Tokens, s.Auth, cfg.CookieName)
	staff := middlewarectx.RequireRoles(logger, models.RoleAdmin, models.RoleTutor)
	admin := middlewarectx.RequireRoles(logger, models.RoleAdmin)
	subscribed := middlewarectx.RequireSubscription(logger)
	limited := middlewarectx.RateLimit(logger, cfg.RPS, cfg.Burst)
	avatar := middlewarectx.SingleFile(logger, "avatar", cfg.ImageMaxBytes)
	thumbnail := middlewarectx.SingleFile(logger, "thumbnail", cfg.ImageMaxBytes)
	lecture := middlewarectx.SingleFile(logger, "lecture", cfg.VideoMaxBytes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			// Открытые конечные точки
			r.Group(func(r chi.Router) {
				r.Use(limited)
				r.With(avatar).Post("/register", register.New(logger, s.Auth, cfg.Cookie).ServeHTTP)
				r.Post("/login", login.New(logger, s.Auth, cfg.Cookie).ServeHTTP)
				r.Post("/forgot-password", forgotpassword.New(logger, s.Auth).ServeHTTP)
				r.Post("/reset-password/{token}", resetpassword.New(logger, s.Auth).ServeHTTP)
			})
			r.Get("/logout", logout.New(cfg.Cookie).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/me", me.New().ServeHTTP)
				r.Post("/change-password", changepassword.New(logger, s.Auth).ServeHTTP)
				r.With(avatar).Post("/update-me", updateme.New(logger, s.Auth).ServeHTTP)
				r.With(admin).Get("/users", users.New(logger, s.Auth).ServeHTTP)
			})
		})

		r.Route("/course", func(r chi.Router) {
			r.Get("/", courselist.New(logger, s.Catalog).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.With(staff, thumbnail).Post("/", coursecreate.New(logger, s.Catalog).ServeHTTP)
				r.With(staff).Get("/mycourses", mycourses.New(logger, s.Catalog).ServeHTTP)

				r.Route("/lectures/{courseId}", func(r chi.Router) {
					r.With(subscribed).Get("/", lecturelist.New(logger, s.Catalog).ServeHTTP)
					r.With(staff, lecture).Post("/", lecturecreate.New(logger, s.Catalog).ServeHTTP)
					r.With(subscribed).Get("/{lectureId}", lectureget.New(logger, s.Catalog).ServeHTTP)
					r.With(staff, lecture).Put("/{lectureId}", lectureupdate.New(logger, s.Catalog).ServeHTTP)
					r.With(staff).Delete("/{lectureId}", lectureremove.New(logger, s.Catalog).ServeHTTP)
				})

				r.With(subscribed).Get("/{id}", courseget.New(logger, s.Catalog).ServeHTTP)
				r.With(staff, thumbnail).Put("/{id}", courseupdate.New(logger, s.Catalog).ServeHTTP)
				r.With(staff).Delete("/{id}", courseremove.New(logger, s.Catalog).ServeHTTP)
				r.With(admin).Patch("/{id}/approval", approval.New(logger, s.Catalog).ServeHTTP)
			})
		})

		r.Route("/payment", func(r chi.Router) {
			r.Use(authn)
			r.Get("/razorpay-key", key.New(s.Subscription).ServeHTTP)
			r.Post("/subscribe", subscribe.New(logger, s.Subscription).ServeHTTP)
			r.Post("/verify", verify.New(logger, s.Subscription).ServeHTTP)
			r.Post("/unsubscribe", unsubscribe.New(logger, s.Subscription).ServeHTTP)
			r.With(admin).Get("/", all.New(logger, s.Subscription).ServeHTTP)
		})

		r.With(limited).Post("/contact", contact.New(logger, s.Contact).ServeHTTP)
		r.With(authn, admin).Get("/stats/users", stats.New(logger, s.Stats).ServeHTTP)
	})
}
