package models

import "time"

// Статусы позиции выписки. Статус меняется только вручную администратором,
// автоматического перехода в PAID по платежам нет.
const (
	ItemStatusPending = "PENDING"
	ItemStatusPaid    = "PAID"
	ItemStatusCredit  = "CREDIT"
)

// Statement — месячная выписка по одной подписке.
// Уникальна по (subscription_id, month, year).
type Statement struct {
	ID             string          `json:"id"`
	SubscriptionID string          `json:"subscription_id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []StatementItem `json:"items"`
}

// StatementItem — доля одного пользователя в выписке.
// Уникальна по (statement_id, user_id).
type StatementItem struct {
	ID          string    `json:"id"`
	StatementID string    `json:"statement_id"`
	UserID      string    `json:"user_id"`
	AmountDue   float64   `json:"amount_due"`
	Status      string    `json:"status"` // PENDING, PAID или CREDIT
	CreatedAt   time.Time `json:"created_at"`
}

// DummyStatementItemPatch используется для ручной корректировки позиции выписки.
type DummyStatementItemPatch struct {
	Status    *string  `json:"status,omitempty" validate:"omitempty,oneof=PENDING PAID CREDIT"`
	AmountDue *float64 `json:"amount_due,omitempty" validate:"omitempty,gt=0"`
}
