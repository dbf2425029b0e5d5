package models

import "time"

// Service представляет совместно используемый стриминговый сервис.
// MonthlyCost — полная месячная стоимость, которая делится между профилями.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"` // Название сервиса (уникальное)
	MonthlyCost float64   `json:"monthly_cost"`
	MaxProfiles int       `json:"max_profiles"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// DummyService используется для приёма данных сервиса из JSON-запроса.
type DummyService struct {
	Name        string  `json:"name" validate:"required"`
	MonthlyCost float64 `json:"monthly_cost" validate:"required,gt=0"`
	MaxProfiles int     `json:"max_profiles" validate:"required,min=1"`
}

// DummyServicePatch используется для частичного обновления сервиса.
// Поля-указатели: nil означает "не менять".
type DummyServicePatch struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	MonthlyCost *float64 `json:"monthly_cost,omitempty" validate:"omitempty,gt=0"`
	MaxProfiles *int     `json:"max_profiles,omitempty" validate:"omitempty,min=1"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
