// Package stats считает агрегаты для панели администратора.
package stats

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Repository источник счётчиков.
type Repository interface {
	CountUsers(ctx context.Context) (models.UserStats, error)
}

// Service сервис статистики.
type Service struct {
	repo Repository
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Users возвращает число пользователей без роли ADMIN и число пользователей с подпиской.
func (s *Service) Users(ctx context.Context) (models.UserStats, error) {
	st, err := s.repo.CountUsers(ctx)
	if err != nil {
		return st, fmt.Errorf("services.stats.Users: %w", err)
	}
	return st, nil
}
