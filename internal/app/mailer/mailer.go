// Package mailer воркер, который забирает письма из очереди и отправляет их по SMTP.
package mailer

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/lms-server/internal/services/sender"
)

// App воркер рассылки.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *senderservice.Service
	logger *slog.Logger
}

// New подключается к брокеру и готовит SMTP транспорт.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:   conn,
		ch:     ch,
		sender: senderservice.New(logger, transport),
		logger: logger,
	}, nil
}

// Run читает очередь писем до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.MailQueue.QueueName, a.sender.HandleMail, senderservice.Retryable)
	if err != nil {
		a.logger.Error("failed to start mail consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("mailer shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
