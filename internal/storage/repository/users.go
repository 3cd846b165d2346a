package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

const userColumns = `id, full_name, email, password_hash, role, avatar_public_id, avatar_secure_url,
	subscription_id, subscription_status, reset_token_hash, reset_token_expiry, is_active,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var resetHash sql.NullString
	var resetExpiry sql.NullTime
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role,
		&u.Avatar.PublicID, &u.Avatar.SecureURL, &u.Subscription.ID, &u.Subscription.Status,
		&resetHash, &resetExpiry, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ResetTokenHash = resetHash.String
	if resetExpiry.Valid {
		u.ResetTokenExpiry = &resetExpiry.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя. Если email уже занят, возвращает ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO users (full_name, email, password_hash, role, avatar_public_id, avatar_secure_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.Role,
		user.Avatar.PublicID, user.Avatar.SecureURL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return u, nil
}

// GetUser возвращает пользователя по id.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProfile обновляет имя и аватар пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, id, fullName string, avatar models.Media) error {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET full_name = $1, avatar_public_id = $2, avatar_secure_url = $3, updated_at = NOW()
			  WHERE id = $4`
	return execOne(ctx, s.DB, op, query, fullName, avatar.PublicID, avatar.SecureURL, id)
}

// UpdatePassword записывает новый хэш пароля.
func (s *Storage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const op = "storage.UpdatePassword"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	return execOne(ctx, s.DB, op, query, passwordHash, id)
}

// SetResetToken сохраняет хэш токена сброса и срок его действия.
func (s *Storage) SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error {
	const op = "storage.SetResetToken"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users SET reset_token_hash = $1, reset_token_expiry = $2, updated_at = NOW() WHERE id = $3`
	return execOne(ctx, s.DB, op, query, tokenHash, expiry, id)
}

// ClearResetToken удаляет данные сброса пароля.
func (s *Storage) ClearResetToken(ctx context.Context, id string) error {
	const op = "storage.ClearResetToken"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users SET reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = NOW() WHERE id = $1`
	return execOne(ctx, s.DB, op, query, id)
}

// ConsumeResetToken одним запросом находит пользователя по хэшу действующего токена,
// записывает новый пароль и гасит токен. Второй вызов с тем же токеном вернёт ErrNotFound.
func (s *Storage) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	const op = "storage.ConsumeResetToken"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	query := `UPDATE users
			  SET password_hash = $1, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = NOW()
			  WHERE reset_token_hash = $2 AND reset_token_expiry > $3
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query, passwordHash, tokenHash, now).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return id, nil
}

// SetSubscription перезаписывает зеркало подписки пользователя.
func (s *Storage) SetSubscription(ctx context.Context, id string, sub models.Subscription) error {
	const op = "storage.SetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users SET subscription_id = $1, subscription_status = $2, updated_at = NOW() WHERE id = $3`
	return execOne(ctx, s.DB, op, query, sub.ID, sub.Status, id)
}

// ActivateSubscription в одной транзакции переводит подписку из created в active
// и сохраняет платёж. Переход выполняется только для сохранённого subscriptionID.
// Возвращает false без ошибки, если подписка уже активна с тем же id;
// в любом другом состоянии возвращает ErrStateConflict.
func (s *Storage) ActivateSubscription(ctx context.Context, p models.Payment) (bool, error) {
	const op = "storage.ActivateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users
			SET subscription_status = 'active', updated_at = NOW()
			WHERE id = $1 AND subscription_id = $2 AND subscription_status = 'created'`,
			p.UserID, p.GatewaySubscriptionID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrStateConflict
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO payments
			(user_id, razorpay_payment_id, razorpay_signature, razorpay_subscription_id)
			VALUES ($1, $2, $3, $4)`,
			p.UserID, p.GatewayPaymentID, p.GatewaySignature, p.GatewaySubscriptionID)
		return mapErr(err)
	})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrStateConflict) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var subID, status string
	qErr := s.DB.QueryRowContext(ctx,
		`SELECT subscription_id, subscription_status FROM users WHERE id = $1`, p.UserID).Scan(&subID, &status)
	if qErr != nil {
		return false, fmt.Errorf("%s: %w", op, mapErr(qErr))
	}
	if subID == p.GatewaySubscriptionID && status == models.SubscriptionActive {
		return false, nil
	}
	return false, fmt.Errorf("%s: %w", op, ErrStateConflict)
}

// CountUsers возвращает число пользователей без роли ADMIN и число пользователей,
// у которых есть подписка в любом статусе.
func (s *Storage) CountUsers(ctx context.Context) (models.UserStats, error) {
	const op = "storage.CountUsers"
	var stats models.UserStats
	if err := checkCtx(ctx, op); err != nil {
		return stats, err
	}

	query := `SELECT
				COUNT(*) FILTER (WHERE role <> 'ADMIN'),
				COUNT(*) FILTER (WHERE subscription_status <> '')
			  FROM users`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&stats.AllUsersCount, &stats.SubscribedCount); err != nil {
		return stats, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execOne выполняет UPDATE и возвращает ErrNotFound, если строка не затронута.
func execOne(ctx context.Context, db execer, op, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
