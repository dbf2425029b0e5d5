package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sharebill/sharebill/internal/models"
)

type BalanceRepoMock struct{ mock.Mock }

func (m *BalanceRepoMock) SumPaymentsByUser(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}
func (m *BalanceRepoMock) SumAmountDueByUser(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}
func (m *BalanceRepoMock) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *BalanceRepoMock) ListProfilesByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *BalanceRepoMock) ListRecentPaymentsByUser(ctx context.Context, userID string, limit int) ([]*models.Payment, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}
func (m *BalanceRepoMock) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *BalanceRepoMock) CountActiveServices(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *BalanceRepoMock) CountActiveSubscriptions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *BalanceRepoMock) CountStatements(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestBalanceService_ComputeBalance(t *testing.T) {
	tests := []struct {
		name        string
		paid        float64
		due         float64
		wantBalance float64
	}{
		{name: "debt", paid: 50, due: 75, wantBalance: -25},
		{name: "credit", paid: 120, due: 75, wantBalance: 45},
		{name: "no activity", paid: 0, due: 0, wantBalance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(BalanceRepoMock)
			repo.On("SumPaymentsByUser", mock.Anything, "u1").Return(tt.paid, nil).Once()
			repo.On("SumAmountDueByUser", mock.Anything, "u1").Return(tt.due, nil).Once()

			svc := NewBalanceService(repo, newNoopLogger())
			balance, err := svc.ComputeBalance(context.Background(), "u1")

			assert.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance.Balance)
			assert.Equal(t, tt.due, balance.Due)
			assert.Equal(t, tt.paid, balance.Paid)
			repo.AssertExpectations(t)
		})
	}
}

func TestBalanceService_ComputeBalance_RepoError(t *testing.T) {
	repo := new(BalanceRepoMock)
	repo.On("SumPaymentsByUser", mock.Anything, "u1").
		Return(0.0, errors.New("db down")).Once()

	svc := NewBalanceService(repo, newNoopLogger())
	balance, err := svc.ComputeBalance(context.Background(), "u1")

	assert.Error(t, err)
	assert.Nil(t, balance)
}

func TestBalanceService_GetDashboard(t *testing.T) {
	repo := new(BalanceRepoMock)
	user := &models.User{ID: "u1", Email: "u1@example.com", Name: "Alice", Role: models.RoleUser}
	subs := []*models.Subscription{{ID: "sub-1", ServiceName: "Netflix"}}
	payments := []*models.Payment{{ID: "pay-1", UserID: "u1", Amount: 25}}

	repo.On("GetUser", mock.Anything, "u1").Return(user, nil).Once()
	repo.On("ListProfilesByUser", mock.Anything, "u1").Return(subs, nil).Once()
	repo.On("ListRecentPaymentsByUser", mock.Anything, "u1", recentPaymentsLimit).Return(payments, nil).Once()
	repo.On("SumPaymentsByUser", mock.Anything, "u1").Return(25.0, nil).Once()
	repo.On("SumAmountDueByUser", mock.Anything, "u1").Return(50.0, nil).Once()

	svc := NewBalanceService(repo, newNoopLogger())
	dashboard, err := svc.GetDashboard(context.Background(), "u1")

	assert.NoError(t, err)
	assert.Equal(t, user, dashboard.User)
	assert.Len(t, dashboard.Subscriptions, 1)
	assert.Len(t, dashboard.RecentPayments, 1)
	assert.Equal(t, -25.0, dashboard.Balance.Balance)
	repo.AssertExpectations(t)
}

func TestBalanceService_GetAdminCounts(t *testing.T) {
	repo := new(BalanceRepoMock)
	repo.On("CountUsers", mock.Anything).Return(7, nil).Once()
	repo.On("CountActiveServices", mock.Anything).Return(3, nil).Once()
	repo.On("CountActiveSubscriptions", mock.Anything).Return(4, nil).Once()
	repo.On("CountStatements", mock.Anything).Return(12, nil).Once()

	svc := NewBalanceService(repo, newNoopLogger())
	counts, err := svc.GetAdminCounts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 7, counts.Users)
	assert.Equal(t, 3, counts.ActiveServices)
	assert.Equal(t, 4, counts.ActiveSubscriptions)
	assert.Equal(t, 12, counts.Statements)
	repo.AssertExpectations(t)
}
