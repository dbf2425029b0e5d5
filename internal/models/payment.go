package models

import "time"

// Payment — зафиксированный платёж пользователя. Платежи не привязываются к
// конкретным позициям выписок: баланс считается агрегированием.
type Payment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Notes     *string   `json:"notes,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
	UserEmail string    `json:"user_email,omitempty"` // Заполняется при листинге
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	UserID string  `json:"user_id" validate:"required,uuid"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required"`
	Notes  *string `json:"notes,omitempty"`
}

// DummyPaymentPatch используется для частичного обновления платежа.
type DummyPaymentPatch struct {
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Method *string  `json:"method,omitempty" validate:"omitempty,min=1"`
	Notes  *string  `json:"notes,omitempty"`
}

// Balance — агрегированный баланс пользователя.
// Due суммирует все позиции выписок вне зависимости от статуса,
// Paid — все платежи, Balance = Paid - Due (положительный — кредит).
type Balance struct {
	Balance float64 `json:"balance"`
	Due     float64 `json:"due"`
	Paid    float64 `json:"paid"`
}
