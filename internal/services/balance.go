package services

import (
	"context"
	"log/slog"

	"github.com/sharebill/sharebill/internal/models"
)

// Интерфейс репозитория для расчета баланса и дашборда пользователя.
type BalanceRepository interface {
	SumPaymentsByUser(ctx context.Context, userID string) (float64, error)
	SumAmountDueByUser(ctx context.Context, userID string) (float64, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListProfilesByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	ListRecentPaymentsByUser(ctx context.Context, userID string, limit int) ([]*models.Payment, error)
	CountUsers(ctx context.Context) (int, error)
	CountActiveServices(ctx context.Context) (int, error)
	CountActiveSubscriptions(ctx context.Context) (int, error)
	CountStatements(ctx context.Context) (int, error)
}

const recentPaymentsLimit = 10

// Dashboard — сводка личного кабинета пользователя.
type Dashboard struct {
	User           *models.User           `json:"user"`
	Subscriptions  []*models.Subscription `json:"subscriptions"`
	RecentPayments []*models.Payment      `json:"recent_payments"`
	Balance        *models.Balance        `json:"balance"`
}

// AdminCounts — счётчики для административной сводки.
type AdminCounts struct {
	Users               int `json:"users"`
	ActiveServices      int `json:"active_services"`
	ActiveSubscriptions int `json:"active_subscriptions"`
	Statements          int `json:"statements"`
}

// BalanceService сводит платежи и доли по выпискам в баланс пользователя.
type BalanceService struct {
	repo BalanceRepository
	log  *slog.Logger
}

func NewBalanceService(repo BalanceRepository, log *slog.Logger) *BalanceService {
	return &BalanceService{
		repo: repo,
		log:  log,
	}
}

// ComputeBalance возвращает баланс пользователя: сумма всех платежей минус
// сумма всех позиций выписок вне зависимости от их статуса. Положительное
// значение — переплата (кредит), отрицательное — долг.
func (s *BalanceService) ComputeBalance(ctx context.Context, userID string) (*models.Balance, error) {
	paid, err := s.repo.SumPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	due, err := s.repo.SumAmountDueByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Balance{
		Balance: paid - due,
		Due:     due,
		Paid:    paid,
	}, nil
}

// GetDashboard собирает сводку личного кабинета: профиль, подписки с местами
// пользователя, последние платежи и баланс.
func (s *BalanceService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.repo.ListProfilesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListRecentPaymentsByUser(ctx, userID, recentPaymentsLimit)
	if err != nil {
		return nil, err
	}
	balance, err := s.ComputeBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		User:           user,
		Subscriptions:  subscriptions,
		RecentPayments: payments,
		Balance:        balance,
	}, nil
}

// GetAdminCounts возвращает счётчики для административной сводки.
func (s *BalanceService) GetAdminCounts(ctx context.Context) (*AdminCounts, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	activeServices, err := s.repo.CountActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	activeSubscriptions, err := s.repo.CountActiveSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	statements, err := s.repo.CountStatements(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminCounts{
		Users:               users,
		ActiveServices:      activeServices,
		ActiveSubscriptions: activeSubscriptions,
		Statements:          statements,
	}, nil
}
