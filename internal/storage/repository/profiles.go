package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sharebill/sharebill/internal/models"
)

// CreateProfile вставляет новый профиль и возвращает его ID.
func (s *Storage) CreateProfile(ctx context.Context, profile models.Profile) (string, error) {
	const op = "storage.CreateProfile"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO profiles (subscription_id, user_id, is_active)
			  VALUES ($1, $2, TRUE)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query, profile.SubscriptionID, profile.UserID).Scan(&newID)
	if err != nil {
		return "", wrapError(op, err)
	}
	return newID, nil
}

// CountActiveProfiles подсчитывает активные профили подписки.
// Лимит мест проверяется только при создании профиля.
func (s *Storage) CountActiveProfiles(ctx context.Context, subscriptionID string) (int, error) {
	const op = "storage.CountActiveProfiles"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM profiles
			  WHERE subscription_id = $1 AND is_active = TRUE`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, subscriptionID).Scan(&count); err != nil {
		return 0, wrapError(op, err)
	}
	return count, nil
}

// UpdateProfile деактивирует или реактивирует профиль.
// Поля-указатели со значением nil не меняются.
func (s *Storage) UpdateProfile(ctx context.Context, id string, isActive *bool, endedAt *time.Time) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET is_active = COALESCE($1, is_active),
			      ended_at = COALESCE($2, ended_at)
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, isActive, endedAt, id)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// DeleteProfile удаляет профиль по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteProfile(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM profiles WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// ListProfilesByUser возвращает активные профили пользователя с данными
// подписки и сервиса для дашборда.
func (s *Storage) ListProfilesByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	const op = "storage.ListProfilesByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.service_id, s.owner_id, s.start_date, s.is_active,
			      s.created_at, sv.name
			  FROM profiles p
			  JOIN subscriptions s ON s.id = p.subscription_id
			  JOIN services sv ON sv.id = s.service_id
			  WHERE p.user_id = $1 AND p.is_active = TRUE
			  ORDER BY sv.name`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.ServiceID, &sub.OwnerID, &sub.StartDate,
			&sub.IsActive, &sub.CreatedAt, &sub.ServiceName); err != nil {
			return nil, wrapError(op, err)
		}
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapError(op, err)
	}
	return result, nil
}
