package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

// ListPayments возвращает журнал платежей, новые первыми.
func (s *Storage) ListPayments(ctx context.Context) ([]models.Payment, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, user_id, razorpay_payment_id, razorpay_signature,
			razorpay_subscription_id, created_at
		FROM payments
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.GatewayPaymentID, &p.GatewaySignature,
			&p.GatewaySubscriptionID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
