package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

func TestStorage_Users(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	t.Run("create and read", func(t *testing.T) {
		u := factory.CreateUser(t, "read@x.com", models.RoleUser)
		assert.NotEmpty(t, u.ID)
		assert.True(t, u.IsActive)

		byID, err := storage.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "read@x.com", byID.Email)

		byEmail, err := storage.GetUserByEmail(ctx, "read@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		factory.CreateUser(t, "dup@x.com", models.RoleUser)
		_, err := storage.CreateUser(ctx, models.User{FullName: "x", Email: "dup@x.com", PasswordHash: "h", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := storage.GetUser(ctx, "6a1e7c1e-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = storage.GetUser(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = storage.GetUserByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update profile and password", func(t *testing.T) {
		u := factory.CreateUser(t, "profile@x.com", models.RoleUser)
		avatar := models.Media{PublicID: "lms/avatar", SecureURL: "https://cdn/a.png"}
		require.NoError(t, storage.UpdateProfile(ctx, u.ID, "new name", avatar))
		require.NoError(t, storage.UpdatePassword(ctx, u.ID, "new-hash"))

		got, err := storage.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "new name", got.FullName)
		assert.Equal(t, avatar, got.Avatar)
		assert.Equal(t, "new-hash", got.PasswordHash)
	})
}

func TestStorage_ConsumeResetToken(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	now := time.Now()

	u := factory.CreateUser(t, "reset@x.com", models.RoleUser)
	require.NoError(t, storage.SetResetToken(ctx, u.ID, "hash-1", now.Add(15*time.Minute)))

	id, err := storage.ConsumeResetToken(ctx, "hash-1", "new-hash", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	got, err := storage.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Empty(t, got.ResetTokenHash)
	assert.Nil(t, got.ResetTokenExpiry)

	_, err = storage.ConsumeResetToken(ctx, "hash-1", "other", now)
	assert.ErrorIs(t, err, ErrNotFound)

	expired := factory.CreateUser(t, "expired@x.com", models.RoleUser)
	require.NoError(t, storage.SetResetToken(ctx, expired.ID, "hash-2", now.Add(-time.Minute)))
	_, err = storage.ConsumeResetToken(ctx, "hash-2", "new-hash", now)
	assert.ErrorIs(t, err, ErrNotFound)

	cleared := factory.CreateUser(t, "cleared@x.com", models.RoleUser)
	require.NoError(t, storage.SetResetToken(ctx, cleared.ID, "hash-3", now.Add(time.Minute)))
	require.NoError(t, storage.ClearResetToken(ctx, cleared.ID))
	_, err = storage.ConsumeResetToken(ctx, "hash-3", "new-hash", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ActivateSubscription(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	payment := func(userID, paymentID, subID string) models.Payment {
		return models.Payment{UserID: userID, GatewayPaymentID: paymentID, GatewaySignature: "sig", GatewaySubscriptionID: subID}
	}

	t.Run("created to active once", func(t *testing.T) {
		u := factory.CreateUser(t, "sub@x.com", models.RoleUser)
		require.NoError(t, storage.SetSubscription(ctx, u.ID, models.Subscription{ID: "sub_1", Status: models.SubscriptionCreated}))

		activated, err := storage.ActivateSubscription(ctx, payment(u.ID, "pay_1", "sub_1"))
		require.NoError(t, err)
		assert.True(t, activated)

		activated, err = storage.ActivateSubscription(ctx, payment(u.ID, "pay_1", "sub_1"))
		require.NoError(t, err)
		assert.False(t, activated)

		got, err := storage.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionActive, got.Subscription.Status)

		payments, err := storage.ListPayments(ctx)
		require.NoError(t, err)
		count := 0
		for _, p := range payments {
			if p.UserID == u.ID {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("wrong subscription id", func(t *testing.T) {
		u := factory.CreateUser(t, "wrongsub@x.com", models.RoleUser)
		require.NoError(t, storage.SetSubscription(ctx, u.ID, models.Subscription{ID: "sub_2", Status: models.SubscriptionCreated}))

		_, err := storage.ActivateSubscription(ctx, payment(u.ID, "pay_2", "sub_other"))
		assert.ErrorIs(t, err, ErrStateConflict)
	})

	t.Run("concurrent verify creates one payment", func(t *testing.T) {
		u := factory.CreateUser(t, "race@x.com", models.RoleUser)
		require.NoError(t, storage.SetSubscription(ctx, u.ID, models.Subscription{ID: "sub_3", Status: models.SubscriptionCreated}))

		var wg sync.WaitGroup
		results := make([]bool, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				activated, err := storage.ActivateSubscription(ctx, payment(u.ID, "pay_3", "sub_3"))
				assert.NoError(t, err)
				results[i] = activated
			}(i)
		}
		wg.Wait()

		activations := 0
		for _, r := range results {
			if r {
				activations++
			}
		}
		assert.Equal(t, 1, activations)
	})
}

func TestStorage_CountUsers(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateUser(t, "admin@x.com", models.RoleAdmin)
	u1 := factory.CreateUser(t, "u1@x.com", models.RoleUser)
	factory.CreateUser(t, "u2@x.com", models.RoleUser)
	factory.CreateUser(t, "tutor@x.com", models.RoleTutor)
	require.NoError(t, storage.SetSubscription(ctx, u1.ID, models.Subscription{ID: "sub", Status: models.SubscriptionCreated}))

	stats, err := storage.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.AllUsersCount)
	assert.Equal(t, 1, stats.SubscribedCount)

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}
