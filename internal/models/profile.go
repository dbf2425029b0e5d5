package models

import "time"

// Profile — место на совместной подписке, закреплённое за одним пользователем.
type Profile struct {
	ID             string     `json:"id"`
	SubscriptionID string     `json:"subscription_id"`
	UserID         string     `json:"user_id"`
	IsActive       bool       `json:"is_active"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// DummyProfile используется для приёма данных профиля из JSON-запроса.
type DummyProfile struct {
	SubscriptionID string `json:"subscription_id" validate:"required,uuid"`
	UserID         string `json:"user_id" validate:"required,uuid"`
}

// DummyProfilePatch используется для деактивации или реактивации профиля.
type DummyProfilePatch struct {
	IsActive *bool   `json:"is_active,omitempty"`
	EndedAt  *string `json:"ended_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
