package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharebill/sharebill/internal/models"
)

// ErrProfileLimitReached возвращается при попытке добавить профиль сверх
// лимита max_profiles сервиса.
var ErrProfileLimitReached = errors.New("profile limit reached")

// Интерфейс репозитория профилей; подписка и сервис нужны для проверки лимита.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile models.Profile) (string, error)
	CountActiveProfiles(ctx context.Context, subscriptionID string) (int, error)
	UpdateProfile(ctx context.Context, id string, isActive *bool, endedAt *time.Time) (int, error)
	DeleteProfile(ctx context.Context, id string) (int, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
}

// ProfileService реализует выдачу и освобождение мест на подписках.
type ProfileService struct {
	repo ProfileRepository
	log  *slog.Logger
}

func NewProfileService(repo ProfileRepository, log *slog.Logger) *ProfileService {
	return &ProfileService{
		repo: repo,
		log:  log,
	}
}

// Create добавляет пользователю профиль на подписке. Количество активных
// профилей не может превышать max_profiles сервиса.
func (s *ProfileService) Create(ctx context.Context, req models.DummyProfile) (string, error) {
	sub, err := s.repo.GetSubscription(ctx, req.SubscriptionID)
	if err != nil {
		return "", err
	}
	svc, err := s.repo.GetService(ctx, sub.ServiceID)
	if err != nil {
		return "", err
	}
	count, err := s.repo.CountActiveProfiles(ctx, req.SubscriptionID)
	if err != nil {
		return "", err
	}
	if count >= svc.MaxProfiles {
		return "", ErrProfileLimitReached
	}

	profile := models.Profile{
		SubscriptionID: req.SubscriptionID,
		UserID:         req.UserID,
		IsActive:       true,
	}
	id, err := s.repo.CreateProfile(ctx, profile)
	if err != nil {
		return "", err
	}
	s.log.Info("created new profile",
		slog.String("id", id),
		slog.String("subscription_id", req.SubscriptionID))
	return id, nil
}

// Update деактивирует или реактивирует профиль. При деактивации без явной
// даты окончания проставляется текущая.
func (s *ProfileService) Update(ctx context.Context, id string, patch models.DummyProfilePatch) (int, error) {
	var endedAtPtr *time.Time
	if patch.EndedAt != nil {
		endedAt, err := time.Parse("2006-01-02", *patch.EndedAt)
		if err != nil {
			return 0, fmt.Errorf("invalid ended date: %w", err)
		}
		endedAtPtr = &endedAt
	} else if patch.IsActive != nil && !*patch.IsActive {
		now := time.Now().UTC()
		endedAtPtr = &now
	}
	return s.repo.UpdateProfile(ctx, id, patch.IsActive, endedAtPtr)
}

func (s *ProfileService) Remove(ctx context.Context, id string) (int, error) {
	return s.repo.DeleteProfile(ctx, id)
}
