package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/lms-server/internal/migrations"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// setupTestDatabase поднимает postgres в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	path, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, path)
	require.NoError(t, err)
	require.NoError(t, CheckDatabaseReady(ctx, storage))

	return storage
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		FullName:     "test user",
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

// CreateCourse создает тестовый курс
func (f *TestDataFactory) CreateCourse(t *testing.T, ownerID string, status models.ApprovalStatus) *models.Course {
	t.Helper()
	c, err := f.storage.CreateCourse(context.Background(), models.Course{
		Title:       "Go in practice",
		Description: "Long enough description",
		Category:    "programming",
		Thumbnail:   models.Media{PublicID: "lms/thumb", SecureURL: "https://cdn/thumb.png"},
		CreatedBy:   ownerID,
		Status:      status,
	})
	require.NoError(t, err)
	return c
}
