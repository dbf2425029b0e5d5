package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/sharebill/sharebill/internal/models"
)

// Интерфейс репозитория каталога сервисов.
type CatalogRepository interface {
	CreateService(ctx context.Context, svc models.Service) (string, error)
	ListActiveServices(ctx context.Context) ([]*models.Service, error)
	ListServices(ctx context.Context, opts models.ListOptions) ([]*models.Service, int, error)
	UpdateService(ctx context.Context, id string, patch models.DummyServicePatch) (int, error)
	DeleteService(ctx context.Context, id string) (int, error)
}

// Cache — контракт кэша, используемый сервисами.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const (
	activeServicesCacheKey = "services:active"
	activeServicesCacheTTL = 60 * time.Second
)

// CatalogService реализует справочник совместно используемых сервисов.
// Список активных сервисов кэшируется: он читается на каждом дашборде.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *CatalogService) Create(ctx context.Context, req models.DummyService) (string, error) {
	svc := models.Service{
		Name:        req.Name,
		MonthlyCost: req.MonthlyCost,
		MaxProfiles: req.MaxProfiles,
		IsActive:    true,
	}
	id, err := s.repo.CreateService(ctx, svc)
	if err != nil {
		return "", err
	}
	s.log.Info("created new service", slog.String("id", id), slog.String("name", req.Name))
	s.invalidateActive()
	return id, nil
}

// ListActive возвращает активные сервисы, сначала пробуя кэш.
func (s *CatalogService) ListActive(ctx context.Context) ([]*models.Service, error) {
	var cached []*models.Service
	found, err := s.cache.Get(activeServicesCacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", activeServicesCacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(activeServicesCacheKey, result, activeServicesCacheTTL); err != nil {
		s.log.Warn("failed to cache active services", slog.Any("err", err))
	}
	return result, nil
}

func (s *CatalogService) List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.Service], error) {
	items, total, err := s.repo.ListServices(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[*models.Service]{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, patch models.DummyServicePatch) (int, error) {
	count, err := s.repo.UpdateService(ctx, id, patch)
	if err != nil {
		return 0, err
	}
	s.invalidateActive()
	return count, nil
}

func (s *CatalogService) Remove(ctx context.Context, id string) (int, error) {
	count, err := s.repo.DeleteService(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidateActive()
	return count, nil
}

func (s *CatalogService) invalidateActive() {
	if err := s.cache.Invalidate(activeServicesCacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", activeServicesCacheKey), slog.Any("err", err))
	}
}
