package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharebill/sharebill/internal/models"
)

// Интерфейс репозитория подписок.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	ListSubscriptions(ctx context.Context, opts models.ListOptions) ([]*models.Subscription, int, error)
	UpdateSubscription(ctx context.Context, id string, endDate *time.Time, isActive *bool) (int, error)
	DeleteSubscription(ctx context.Context, id string) (int, error)
}

// SubscriptionService реализует управление подписками на сервисы.
type SubscriptionService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription) (string, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date: %w", err)
	}

	sub := models.Subscription{
		ServiceID: req.ServiceID,
		OwnerID:   req.OwnerID,
		StartDate: startDate,
		IsActive:  true,
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return "", err
	}
	s.log.Info("created new subscription", slog.String("id", id))
	return id, nil
}

func (s *SubscriptionService) List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.Subscription], error) {
	items, total, err := s.repo.ListSubscriptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[*models.Subscription]{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

// Update завершает или реактивирует подписку. Установка end_date
// не деактивирует подписку автоматически: is_active меняется отдельно.
func (s *SubscriptionService) Update(ctx context.Context, id string, patch models.DummySubscriptionPatch) (int, error) {
	var endDatePtr *time.Time
	if patch.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *patch.EndDate)
		if err != nil {
			return 0, fmt.Errorf("invalid end date: %w", err)
		}
		endDatePtr = &endDate
	}
	return s.repo.UpdateSubscription(ctx, id, endDatePtr, patch.IsActive)
}

func (s *SubscriptionService) Remove(ctx context.Context, id string) (int, error) {
	return s.repo.DeleteSubscription(ctx, id)
}
