// Package subscription реализует покупку, подтверждение и отмену
// подписки через платёжный шлюз.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/metrics"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/paymentprovider"
	"github.com/magabrotheeeer/lms-server/internal/storage/repository"
)

// DefaultListCount число подписок из шлюза в отчёте администратора.
const DefaultListCount = 10

// Repository определяет методы хранилища для работы с подписками.
type Repository interface {
	// SetSubscription перезаписывает зеркало подписки пользователя.
	SetSubscription(ctx context.Context, userID string, sub models.Subscription) error
	// ActivateSubscription переводит подписку в active и сохраняет платёж.
	ActivateSubscription(ctx context.Context, p models.Payment) (bool, error)
	// ListPayments возвращает все сохранённые платежи.
	ListPayments(ctx context.Context) ([]models.Payment, error)
}

// Gateway клиент платёжного шлюза.
type Gateway interface {
	KeyID() string
	CreateSubscription(ctx context.Context, planID string) (*paymentprovider.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*paymentprovider.Subscription, error)
	ListSubscriptions(ctx context.Context, count int) (*paymentprovider.SubscriptionList, error)
}

// VerifyInput данные, которые клиент получает от шлюза после оплаты.
type VerifyInput struct {
	PaymentID      string
	Signature      string
	SubscriptionID string
}

// Payments отчёт администратора.
type Payments struct {
	Payments      []models.Payment                  `json:"payments"`
	Subscriptions *paymentprovider.SubscriptionList `json:"subscriptions"`
}

// Service сервис подписок.
type Service struct {
	repo    Repository
	gateway Gateway
	secret  string
	planID  string
	log     *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, gateway Gateway, secret, planID string, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		secret:  secret,
		planID:  planID,
		log:     log,
	}
}

// Key возвращает публичный ключ шлюза для клиентского виджета.
func (s *Service) Key() string {
	return s.gateway.KeyID()
}

// Subscribe создаёт подписку в шлюзе и сохраняет её у пользователя.
// Предыдущая подписка перезаписывается.
func (s *Service) Subscribe(ctx context.Context, user *models.User) (string, error) {
	const op = "services.subscription.Subscribe"
	if user.Role == models.RoleAdmin {
		return "", apperr.BadRequest("Admin can not purchase a subscription")
	}

	sub, err := s.gateway.CreateSubscription(ctx, s.planID)
	if err != nil {
		return "", apperr.Gateway("Payment gateway is unavailable, please try again", fmt.Errorf("%s: %w", op, err))
	}

	if err := s.repo.SetSubscription(ctx, user.ID, models.Subscription{ID: sub.ID, Status: sub.Status}); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.SubscriptionEvents.WithLabelValues("created").Inc()
	s.log.Info("subscription created", slog.String("user_id", user.ID), slog.String("subscription_id", sub.ID))
	return sub.ID, nil
}

// Verify проверяет подпись платежа по сохранённому id подписки и активирует её.
// Повторная проверка уже активной подписки успешна и не создаёт второй платёж.
func (s *Service) Verify(ctx context.Context, user *models.User, in VerifyInput) error {
	const op = "services.subscription.Verify"
	storedID := user.Subscription.ID
	if storedID == "" || !paymentprovider.VerifySubscriptionSignature(s.secret, in.PaymentID, storedID, in.Signature) {
		metrics.PaymentVerifications.WithLabelValues("invalid").Inc()
		return apperr.BadRequest("Payment not verified, please try again")
	}

	activated, err := s.repo.ActivateSubscription(ctx, models.Payment{
		UserID:                user.ID,
		GatewayPaymentID:      in.PaymentID,
		GatewaySignature:      in.Signature,
		GatewaySubscriptionID: storedID,
	})
	switch {
	case errors.Is(err, repository.ErrStateConflict), errors.Is(err, repository.ErrAlreadyExists):
		metrics.PaymentVerifications.WithLabelValues("conflict").Inc()
		return apperr.Conflict("Subscription can not be activated in its current state")
	case err != nil:
		return fmt.Errorf("%s: %w", op, err)
	}

	if !activated {
		metrics.PaymentVerifications.WithLabelValues("duplicate").Inc()
		return nil
	}
	metrics.PaymentVerifications.WithLabelValues("ok").Inc()
	metrics.SubscriptionEvents.WithLabelValues("activated").Inc()
	s.log.Info("subscription activated", slog.String("user_id", user.ID), slog.String("subscription_id", storedID))
	return nil
}

// Cancel отменяет подписку в шлюзе и сохраняет возвращённый статус.
func (s *Service) Cancel(ctx context.Context, user *models.User) error {
	const op = "services.subscription.Cancel"
	if user.Role == models.RoleAdmin {
		return apperr.BadRequest("Admin can not cancel a subscription")
	}
	if user.Subscription.ID == "" {
		return apperr.BadRequest("No subscription to cancel")
	}

	sub, err := s.gateway.CancelSubscription(ctx, user.Subscription.ID)
	if err != nil {
		return apperr.Gateway("Payment gateway is unavailable, please try again", fmt.Errorf("%s: %w", op, err))
	}

	if err := s.repo.SetSubscription(ctx, user.ID, models.Subscription{ID: user.Subscription.ID, Status: sub.Status}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.SubscriptionEvents.WithLabelValues("cancelled").Inc()
	s.log.Info("subscription cancelled", slog.String("user_id", user.ID))
	return nil
}

// AllPayments возвращает сохранённые платежи и последние подписки из шлюза.
func (s *Service) AllPayments(ctx context.Context, count int) (*Payments, error) {
	const op = "services.subscription.AllPayments"
	if count <= 0 {
		count = DefaultListCount
	}
	payments, err := s.repo.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.gateway.ListSubscriptions(ctx, count)
	if err != nil {
		return nil, apperr.Gateway("Payment gateway is unavailable, please try again", fmt.Errorf("%s: %w", op, err))
	}
	return &Payments{Payments: payments, Subscriptions: subs}, nil
}
