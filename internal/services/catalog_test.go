package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sharebill/sharebill/internal/models"
)

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) CreateService(ctx context.Context, svc models.Service) (string, error) {
	args := m.Called(ctx, svc)
	return args.String(0), args.Error(1)
}
func (m *CatalogRepoMock) GetService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *CatalogRepoMock) ListActiveServices(ctx context.Context) ([]*models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}
func (m *CatalogRepoMock) ListServices(ctx context.Context, opts models.ListOptions) ([]*models.Service, int, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Service), args.Int(1), args.Error(2)
}
func (m *CatalogRepoMock) UpdateService(ctx context.Context, id string, patch models.DummyServicePatch) (int, error) {
	args := m.Called(ctx, id, patch)
	return args.Int(0), args.Error(1)
}
func (m *CatalogRepoMock) DeleteService(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func TestCatalogService_Create(t *testing.T) {
	repo := new(CatalogRepoMock)
	cache := new(CacheMock)
	repo.On("CreateService", mock.MatchedBy(func(_ context.Context) bool { return true }),
		mock.MatchedBy(func(svc models.Service) bool {
			return svc.Name == "Netflix" && svc.MonthlyCost == 100 && svc.MaxProfiles == 4 && svc.IsActive
		})).Return("svc-1", nil).Once()
	cache.On("Invalidate", activeServicesCacheKey).Return(nil).Once()

	service := NewCatalogService(repo, cache, newNoopLogger())
	id, err := service.Create(context.Background(), models.DummyService{
		Name:        "Netflix",
		MonthlyCost: 100,
		MaxProfiles: 4,
	})

	assert.NoError(t, err)
	assert.Equal(t, "svc-1", id)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_ListActive(t *testing.T) {
	active := []*models.Service{
		{ID: "svc-1", Name: "Netflix", MonthlyCost: 100, MaxProfiles: 4, IsActive: true},
	}

	t.Run("cache miss reads repo and caches", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", activeServicesCacheKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListActiveServices", mock.Anything).Return(active, nil).Once()
		cache.On("Set", activeServicesCacheKey, active, activeServicesCacheTTL).Return(nil).Once()

		service := NewCatalogService(repo, cache, newNoopLogger())
		result, err := service.ListActive(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, active, result)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repo", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", activeServicesCacheKey, mock.Anything).Return(true, nil).Once()

		service := NewCatalogService(repo, cache, newNoopLogger())
		_, err := service.ListActive(context.Background())

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "ListActiveServices", mock.Anything)
	})
}

func TestCatalogService_Update_InvalidatesCache(t *testing.T) {
	repo := new(CatalogRepoMock)
	cache := new(CacheMock)
	cost := 129.0
	patch := models.DummyServicePatch{MonthlyCost: &cost}
	repo.On("UpdateService", mock.Anything, "svc-1", patch).Return(1, nil).Once()
	cache.On("Invalidate", activeServicesCacheKey).Return(nil).Once()

	service := NewCatalogService(repo, cache, newNoopLogger())
	count, err := service.Update(context.Background(), "svc-1", patch)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
