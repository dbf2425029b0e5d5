package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sharebill/sharebill/internal/models"
	"github.com/sharebill/sharebill/internal/storage/repository"
)

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) CreateProfile(ctx context.Context, profile models.Profile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}
func (m *ProfileRepoMock) CountActiveProfiles(ctx context.Context, subscriptionID string) (int, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Int(0), args.Error(1)
}
func (m *ProfileRepoMock) UpdateProfile(ctx context.Context, id string, isActive *bool, endedAt *time.Time) (int, error) {
	args := m.Called(ctx, id, isActive, endedAt)
	return args.Int(0), args.Error(1)
}
func (m *ProfileRepoMock) DeleteProfile(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *ProfileRepoMock) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *ProfileRepoMock) GetService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func TestProfileService_Create(t *testing.T) {
	sub := &models.Subscription{ID: "sub-1", ServiceID: "svc-1", IsActive: true}
	svc := &models.Service{ID: "svc-1", Name: "Netflix", MonthlyCost: 100, MaxProfiles: 4}

	tests := []struct {
		name       string
		setupMocks func(r *ProfileRepoMock)
		wantID     string
		wantErr    error
	}{
		{
			name: "success under limit",
			setupMocks: func(r *ProfileRepoMock) {
				r.On("GetSubscription", mock.Anything, "sub-1").Return(sub, nil).Once()
				r.On("GetService", mock.Anything, "svc-1").Return(svc, nil).Once()
				r.On("CountActiveProfiles", mock.Anything, "sub-1").Return(3, nil).Once()
				r.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p models.Profile) bool {
					return p.SubscriptionID == "sub-1" && p.UserID == "u1" && p.IsActive
				})).Return("p1", nil).Once()
			},
			wantID: "p1",
		},
		{
			name: "limit reached",
			setupMocks: func(r *ProfileRepoMock) {
				r.On("GetSubscription", mock.Anything, "sub-1").Return(sub, nil).Once()
				r.On("GetService", mock.Anything, "svc-1").Return(svc, nil).Once()
				r.On("CountActiveProfiles", mock.Anything, "sub-1").Return(4, nil).Once()
			},
			wantErr: ErrProfileLimitReached,
		},
		{
			name: "unknown subscription",
			setupMocks: func(r *ProfileRepoMock) {
				r.On("GetSubscription", mock.Anything, "sub-1").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ProfileRepoMock)
			tt.setupMocks(repo)

			service := NewProfileService(repo, newNoopLogger())
			id, err := service.Create(context.Background(), models.DummyProfile{
				SubscriptionID: "sub-1",
				UserID:         "u1",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestProfileService_Update(t *testing.T) {
	t.Run("deactivate sets ended date automatically", func(t *testing.T) {
		repo := new(ProfileRepoMock)
		isActive := false
		repo.On("UpdateProfile", mock.Anything, "p1", &isActive,
			mock.MatchedBy(func(endedAt *time.Time) bool {
				return endedAt != nil && time.Since(*endedAt) < time.Minute
			})).Return(1, nil).Once()

		service := NewProfileService(repo, newNoopLogger())
		count, err := service.Update(context.Background(), "p1", models.DummyProfilePatch{IsActive: &isActive})

		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("explicit ended date", func(t *testing.T) {
		repo := new(ProfileRepoMock)
		isActive := false
		endedAt := "2025-06-15"
		want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		repo.On("UpdateProfile", mock.Anything, "p1", &isActive, &want).Return(1, nil).Once()

		service := NewProfileService(repo, newNoopLogger())
		count, err := service.Update(context.Background(), "p1", models.DummyProfilePatch{
			IsActive: &isActive,
			EndedAt:  &endedAt,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("invalid ended date", func(t *testing.T) {
		repo := new(ProfileRepoMock)
		endedAt := "15.06.2025"

		service := NewProfileService(repo, newNoopLogger())
		_, err := service.Update(context.Background(), "p1", models.DummyProfilePatch{EndedAt: &endedAt})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
