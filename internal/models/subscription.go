package models

import "time"

// Subscription связывает сервис с владельцем подписки.
// EndDate может быть nil — подписка действует без даты окончания.
type Subscription struct {
	ID          string     `json:"id"`
	ServiceID   string     `json:"service_id"`
	OwnerID     string     `json:"owner_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	ServiceName string     `json:"service_name,omitempty"` // Заполняется при листинге
	OwnerEmail  string     `json:"owner_email,omitempty"`  // Заполняется при листинге
}

// DummySubscription используется для приёма данных подписки из JSON-запроса.
// Дата приходит строкой в формате 2006-01-02.
type DummySubscription struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	OwnerID   string `json:"owner_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// DummySubscriptionPatch используется для завершения или реактивации подписки.
type DummySubscriptionPatch struct {
	EndDate  *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// BillingProfile — активный профиль с данными получателя, как его видит
// генератор выписок.
type BillingProfile struct {
	ProfileID string
	UserID    string
	UserEmail string
	UserName  string
}

// BillingSubscription — активная подписка с сервисом и активными профилями,
// подготовленная для генерации выписки за месяц.
type BillingSubscription struct {
	SubscriptionID string
	ServiceName    string
	MonthlyCost    float64
	Profiles       []BillingProfile
}
