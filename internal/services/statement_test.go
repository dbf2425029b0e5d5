package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sharebill/sharebill/internal/models"
)

type StatementRepoMock struct{ mock.Mock }

func (m *StatementRepoMock) ListActiveSubscriptionsForBilling(ctx context.Context) ([]*models.BillingSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BillingSubscription), args.Error(1)
}
func (m *StatementRepoMock) UpsertStatement(ctx context.Context, subscriptionID string, month, year int) (string, error) {
	args := m.Called(ctx, subscriptionID, month, year)
	return args.String(0), args.Error(1)
}
func (m *StatementRepoMock) UpsertStatementItem(ctx context.Context, statementID, userID string, amountDue float64) (string, error) {
	args := m.Called(ctx, statementID, userID, amountDue)
	return args.String(0), args.Error(1)
}
func (m *StatementRepoMock) ListStatements(ctx context.Context, limit, offset int) ([]*models.Statement, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Statement), args.Int(1), args.Error(2)
}
func (m *StatementRepoMock) UpdateStatementItem(ctx context.Context, id string, status *string, amountDue *float64) (int, error) {
	args := m.Called(ctx, id, status, amountDue)
	return args.Int(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishEmail(job models.EmailJob) error {
	return m.Called(job).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatementService_GenerateForMonth(t *testing.T) {
	billingSub := &models.BillingSubscription{
		SubscriptionID: "sub-1",
		ServiceName:    "Netflix",
		MonthlyCost:    100,
		Profiles: []models.BillingProfile{
			{ProfileID: "p1", UserID: "u1", UserEmail: "u1@example.com", UserName: "Alice"},
			{ProfileID: "p2", UserID: "u2", UserEmail: "u2@example.com", UserName: "Bob"},
			{ProfileID: "p3", UserID: "u3", UserEmail: "u3@example.com", UserName: "Carol"},
			{ProfileID: "p4", UserID: "u4", UserEmail: "u4@example.com", UserName: "Dave"},
		},
	}

	tests := []struct {
		name       string
		setupMocks func(r *StatementRepoMock, p *PublisherMock)
		wantErr    bool
	}{
		{
			name: "success even split",
			setupMocks: func(r *StatementRepoMock, p *PublisherMock) {
				r.On("ListActiveSubscriptionsForBilling", mock.Anything).
					Return([]*models.BillingSubscription{billingSub}, nil).Once()
				r.On("UpsertStatement", mock.Anything, "sub-1", 3, 2025).
					Return("st-1", nil).Once()
				for _, uid := range []string{"u1", "u2", "u3", "u4"} {
					r.On("UpsertStatementItem", mock.Anything, "st-1", uid, 25.0).
						Return("item-"+uid, nil).Once()
				}
				p.On("PublishEmail", mock.MatchedBy(func(job models.EmailJob) bool {
					return job.To != "" && job.Subject != ""
				})).Return(nil).Times(4)
			},
			wantErr: false,
		},
		{
			name: "subscription without profiles is skipped",
			setupMocks: func(r *StatementRepoMock, _ *PublisherMock) {
				r.On("ListActiveSubscriptionsForBilling", mock.Anything).
					Return([]*models.BillingSubscription{{
						SubscriptionID: "sub-2",
						ServiceName:    "Spotify",
						MonthlyCost:    300,
					}}, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "profile without email gets no notification",
			setupMocks: func(r *StatementRepoMock, p *PublisherMock) {
				r.On("ListActiveSubscriptionsForBilling", mock.Anything).
					Return([]*models.BillingSubscription{{
						SubscriptionID: "sub-3",
						ServiceName:    "Netflix",
						MonthlyCost:    90,
						Profiles: []models.BillingProfile{
							{ProfileID: "p1", UserID: "u1", UserEmail: "u1@example.com", UserName: "Alice"},
							{ProfileID: "p2", UserID: "u2", UserEmail: "", UserName: "Kid"},
						},
					}}, nil).Once()
				r.On("UpsertStatement", mock.Anything, "sub-3", 3, 2025).
					Return("st-3", nil).Once()
				r.On("UpsertStatementItem", mock.Anything, "st-3", "u1", 45.0).
					Return("item-1", nil).Once()
				r.On("UpsertStatementItem", mock.Anything, "st-3", "u2", 45.0).
					Return("item-2", nil).Once()
				p.On("PublishEmail", mock.MatchedBy(func(job models.EmailJob) bool {
					return job.To == "u1@example.com"
				})).Return(nil).Once()
			},
			wantErr: false,
		},
		{
			name: "repo list error",
			setupMocks: func(r *StatementRepoMock, _ *PublisherMock) {
				r.On("ListActiveSubscriptionsForBilling", mock.Anything).
					Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
		{
			name: "publish error stops generation",
			setupMocks: func(r *StatementRepoMock, p *PublisherMock) {
				r.On("ListActiveSubscriptionsForBilling", mock.Anything).
					Return([]*models.BillingSubscription{billingSub}, nil).Once()
				r.On("UpsertStatement", mock.Anything, "sub-1", 3, 2025).
					Return("st-1", nil).Once()
				r.On("UpsertStatementItem", mock.Anything, "st-1", "u1", 25.0).
					Return("item-1", nil).Once()
				p.On("PublishEmail", mock.Anything).
					Return(errors.New("broker unavailable")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(StatementRepoMock)
			publisher := new(PublisherMock)
			tt.setupMocks(repo, publisher)

			svc := NewStatementService(repo, publisher, newNoopLogger())
			err := svc.GenerateForMonth(context.Background(), 3, 2025)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestStatementService_GenerateForMonth_UnevenSplit(t *testing.T) {
	repo := new(StatementRepoMock)
	publisher := new(PublisherMock)

	repo.On("ListActiveSubscriptionsForBilling", mock.Anything).
		Return([]*models.BillingSubscription{{
			SubscriptionID: "sub-1",
			ServiceName:    "HBO Max",
			MonthlyCost:    229,
			Profiles: []models.BillingProfile{
				{ProfileID: "p1", UserID: "u1"},
				{ProfileID: "p2", UserID: "u2"},
				{ProfileID: "p3", UserID: "u3"},
			},
		}}, nil).Once()
	repo.On("UpsertStatement", mock.Anything, "sub-1", 6, 2025).
		Return("st-1", nil).Once()
	repo.On("UpsertStatementItem", mock.Anything, "st-1", mock.Anything, mock.MatchedBy(func(amount float64) bool {
		return amount > 76.33 && amount < 76.34
	})).Return("item", nil).Times(3)

	svc := NewStatementService(repo, publisher, newNoopLogger())
	err := svc.GenerateForMonth(context.Background(), 6, 2025)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "PublishEmail", mock.Anything)
}

func TestStatementService_List(t *testing.T) {
	repo := new(StatementRepoMock)
	statements := []*models.Statement{
		{ID: "st-1", SubscriptionID: "sub-1", Month: 3, Year: 2025},
		{ID: "st-2", SubscriptionID: "sub-2", Month: 3, Year: 2025},
	}
	repo.On("ListStatements", mock.Anything, 10, 10).
		Return(statements, 12, nil).Once()

	svc := NewStatementService(repo, new(PublisherMock), newNoopLogger())
	result, err := svc.List(context.Background(), 2, 10)

	assert.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 12, result.Total)
	assert.Equal(t, 2, result.Page)
	repo.AssertExpectations(t)
}

func TestStatementService_UpdateItem(t *testing.T) {
	repo := new(StatementRepoMock)
	status := models.ItemStatusPaid
	repo.On("UpdateStatementItem", mock.Anything, "item-1", &status, (*float64)(nil)).
		Return(1, nil).Once()

	svc := NewStatementService(repo, new(PublisherMock), newNoopLogger())
	count, err := svc.UpdateItem(context.Background(), "item-1", models.DummyStatementItemPatch{Status: &status})

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
}
