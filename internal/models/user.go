// Package models содержит доменные структуры ShareBill: пользователи, сервисы,
// подписки, профили, выписки и платежи, а также вспомогательные типы для
// приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей системы.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"` // Электронная почта (уникальная)
	Name               string    `json:"name"`
	PasswordHash       string    `json:"-"`
	Role               string    `json:"role"` // ADMIN или USER
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
}

// DummyUser используется для приёма данных нового пользователя из JSON-запроса.
// Пароль не принимается: система генерирует временный.
type DummyUser struct {
	Email string `json:"email" validate:"omitempty,email"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required,oneof=ADMIN USER"`
}

// DummyUserPatch используется для частичного обновления пользователя.
type DummyUserPatch struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Role          *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN USER"`
	ResetPassword *bool   `json:"reset_password,omitempty"`
}

// ResetToken представляет одноразовый токен восстановления пароля.
type ResetToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}
