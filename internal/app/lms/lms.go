// Package lms собирает HTTP приложение платформы курсов.
package lms

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-server/internal/cache"
	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-server/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/mediahost"
	"github.com/magabrotheeeer/lms-server/internal/metrics"
	"github.com/magabrotheeeer/lms-server/internal/migrations"
	"github.com/magabrotheeeer/lms-server/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/lms-server/internal/services/auth"
	"github.com/magabrotheeeer/lms-server/internal/services/catalog"
	contactservice "github.com/magabrotheeeer/lms-server/internal/services/contact"
	statsservice "github.com/magabrotheeeer/lms-server/internal/services/stats"
	"github.com/magabrotheeeer/lms-server/internal/services/subscription"
	"github.com/magabrotheeeer/lms-server/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP сервер со всеми зависимостями.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	publisher *rabbitmq.Publisher
}

// New поднимает зависимости и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("database schema is up to date", slog.Uint64("version", uint64(version)))
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	dial := func() (*amqp.Connection, error) {
		return rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	}
	publisher, err := rabbitmq.NewPublisher(logger, dial, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}

	metrics.MustRegister()

	media := mediahost.New(cfg.Supabase)
	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gateway := paymentprovider.NewClient(cfg.RazorpayKeyID, cfg.RazorpaySecret, cfg.RazorpayAPIURL, cfg.RazorpayTimeout)

	services := Services{
		Auth: authservice.NewService(db, tokens, media, publisher, authservice.Options{
			ResetTokenTTL: cfg.ResetTokenTTL,
			FrontendURL:   cfg.FrontendURL,
		}, logger),
		Catalog:      catalog.NewService(db, cacheRedis, media, cfg.CatalogCacheTTL, logger),
		Subscription: subscription.NewService(db, gateway, cfg.RazorpaySecret, cfg.RazorpayPlanID, logger),
		Contact:      contactservice.NewService(db, publisher, cfg.ContactUsEmail, logger),
		Stats:        statsservice.NewService(db),
		Tokens:       tokens,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, cfg, logger, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: publisher,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем мягко останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("failed to close amqp publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
