// Package contact принимает сообщения из формы обратной связи.
package contact

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Repository сохраняет сообщение.
type Repository interface {
	CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error)
}

// Mailer ставит письмо в очередь отправки.
type Mailer interface {
	Publish(ctx context.Context, msg models.MailMessage) error
}

// Service сервис обратной связи.
type Service struct {
	repo   Repository
	mailer Mailer
	to     string
	log    *slog.Logger
}

// NewService создает новый экземпляр Service. Если to пуст, письмо не отправляется.
func NewService(repo Repository, mailer Mailer, to string, log *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, to: to, log: log}
}

// Submit сохраняет сообщение и пересылает его на адрес поддержки.
// Ошибка отправки письма только логируется.
func (s *Service) Submit(ctx context.Context, name, email, message string) (*models.Contact, error) {
	const op = "services.contact.Submit"
	saved, err := s.repo.CreateContact(ctx, models.Contact{
		Name:    strings.TrimSpace(name),
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Message: strings.TrimSpace(message),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.to == "" {
		return saved, nil
	}
	msg := models.MailMessage{
		To:      s.to,
		Subject: "Contact Us Form",
		Body: fmt.Sprintf("%s - %s <br /> %s",
			html.EscapeString(saved.Name), html.EscapeString(saved.Email), html.EscapeString(saved.Message)),
	}
	if err := s.mailer.Publish(ctx, msg); err != nil {
		s.log.Warn("failed to queue contact mail", slog.String("op", op), sl.Err(err))
	}
	return saved, nil
}
