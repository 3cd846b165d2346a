// Package sender доставляет письма из очереди по SMTP.
package sender

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/smtp"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// ErrBadMessage сообщение из очереди не удалось разобрать.
var ErrBadMessage = errors.New("malformed mail message")

// Service отправляет письма через SMTP транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleMail разбирает сообщение из очереди и отправляет письмо.
func (s *Service) HandleMail(body []byte) error {
	const op = "services.sender.HandleMail"
	var msg models.MailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrBadMessage, err)
	}
	if msg.To == "" {
		return fmt.Errorf("%s: %w: empty recipient", op, ErrBadMessage)
	}
	if err := s.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Retryable сообщает, имеет ли смысл вернуть письмо в очередь.
// Неразборчивое сообщение не станет корректным при повторной доставке.
func Retryable(err error) bool {
	return !errors.Is(err, ErrBadMessage)
}

// Send отправляет одно письмо.
func (s *Service) Send(m models.MailMessage) error {
	log := s.log.With(slog.String("op", "services.sender.Send"))
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + m.To,
		"Subject: " + m.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		m.Body,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	if err := client.Rcpt(m.To); err != nil {
		log.Error("failed to set RCPT TO", sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	log.Info("email sent successfully", slog.String("subject", m.Subject))
	return nil
}
