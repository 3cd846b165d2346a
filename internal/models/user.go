// Package models содержит доменную модель пользователя системы,
// курсов с вложенными лекциями, платежей и сообщений обратной связи.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Role роль пользователя.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleTutor Role = "TUTOR"
)

// Статусы подписки, которые приходят от платёжного шлюза.
const (
	SubscriptionCreated   = "created"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// Media ссылка на файл во внешнем медиахостинге.
type Media struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Subscription зеркало подписки из платёжного шлюза.
type Subscription struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

// User представляет зарегистрированного пользователя системы.
// Хэш пароля и данные сброса пароля никогда не сериализуются в ответы.
type User struct {
	ID               string       `json:"id"`
	FullName         string       `json:"fullName"`
	Email            string       `json:"email"`
	PasswordHash     string       `json:"-"`
	Role             Role         `json:"role"`
	Avatar           Media        `json:"avatar"`
	Subscription     Subscription `json:"subscription"`
	ResetTokenHash   string       `json:"-"`
	ResetTokenExpiry *time.Time   `json:"-"`
	IsActive         bool         `json:"isActive"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// HasActiveSubscription сообщает, есть ли у пользователя доступ к платному контенту.
func (u *User) HasActiveSubscription() bool {
	return u.Role == RoleAdmin || u.Subscription.Status == SubscriptionActive
}

// UserStats агрегированная статистика по пользователям.
type UserStats struct {
	AllUsersCount   int `json:"allUsersCount"`
	SubscribedCount int `json:"subscribedCount"`
}
