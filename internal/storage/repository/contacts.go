package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

// CreateContact сохраняет сообщение из формы обратной связи.
func (s *Storage) CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error) {
	const op = "storage.CreateContact"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	created := c
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO contacts (name, email, message) VALUES ($1, $2, $3) RETURNING id, created_at`,
		c.Name, c.Email, c.Message).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}
