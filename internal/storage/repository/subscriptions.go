package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sharebill/sharebill/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (service_id, owner_id, start_date, is_active)
			  VALUES ($1, $2, $3, TRUE)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query, sub.ServiceID, sub.OwnerID, sub.StartDate).Scan(&newID)
	if err != nil {
		return "", wrapError(op, err)
	}
	return newID, nil
}

// GetSubscription возвращает подписку по ID вместе с названием сервиса.
func (s *Storage) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.service_id, s.owner_id, s.start_date, s.end_date,
			      s.is_active, s.created_at, sv.name, COALESCE(u.email, '')
			  FROM subscriptions s
			  JOIN services sv ON sv.id = s.service_id
			  JOIN users u ON u.id = s.owner_id
			  WHERE s.id = $1`
	var sub models.Subscription
	var endDate sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&sub.ID, &sub.ServiceID, &sub.OwnerID, &sub.StartDate, &endDate,
		&sub.IsActive, &sub.CreatedAt, &sub.ServiceName, &sub.OwnerEmail); err != nil {
		return nil, wrapError(op, err)
	}
	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	return &sub, nil
}

// ListSubscriptions возвращает страницу подписок. Поиск матчит название сервиса
// и email владельца.
func (s *Storage) ListSubscriptions(ctx context.Context, opts models.ListOptions) ([]*models.Subscription, int, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pattern := "%" + opts.Query + "%"

	var total int
	countQuery := `SELECT COUNT(*)
				   FROM subscriptions s
				   JOIN services sv ON sv.id = s.service_id
				   JOIN users u ON u.id = s.owner_id
				   WHERE sv.name ILIKE $1 OR COALESCE(u.email, '') ILIKE $1`
	if err := s.DB.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, wrapError(op, err)
	}

	query := fmt.Sprintf(`SELECT s.id, s.service_id, s.owner_id, s.start_date, s.end_date,
			      s.is_active, s.created_at, sv.name, COALESCE(u.email, '')
			  FROM subscriptions s
			  JOIN services sv ON sv.id = s.service_id
			  JOIN users u ON u.id = s.owner_id
			  WHERE sv.name ILIKE $1 OR COALESCE(u.email, '') ILIKE $1
			  ORDER BY s.%s %s
			  LIMIT $2 OFFSET $3`, opts.Sort, opts.Dir)
	rows, err := s.DB.QueryContext(ctx, query, pattern, opts.PageSize, opts.Offset())
	if err != nil {
		return nil, 0, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var endDate sql.NullTime
		if err := rows.Scan(&sub.ID, &sub.ServiceID, &sub.OwnerID, &sub.StartDate, &endDate,
			&sub.IsActive, &sub.CreatedAt, &sub.ServiceName, &sub.OwnerEmail); err != nil {
			return nil, 0, wrapError(op, err)
		}
		if endDate.Valid {
			sub.EndDate = &endDate.Time
		}
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapError(op, err)
	}
	return result, total, nil
}

// UpdateSubscription завершает или реактивирует подписку.
// Поля-указатели со значением nil не меняются.
func (s *Storage) UpdateSubscription(ctx context.Context, id string, endDate *time.Time, isActive *bool) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET end_date = COALESCE($1, end_date),
			      is_active = COALESCE($2, is_active)
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, endDate, isActive, id)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// DeleteSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteSubscription(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
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

// ListActiveSubscriptionsForBilling возвращает активные подписки с сервисом и
// активными профилями, подготовленные для генерации выписок. Подписки без
// активных профилей в результат не попадают.
func (s *Storage) ListActiveSubscriptionsForBilling(ctx context.Context) ([]*models.BillingSubscription, error) {
	const op = "storage.ListActiveSubscriptionsForBilling"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, sv.name, sv.monthly_cost, p.id, p.user_id, COALESCE(u.email, ''), u.name
			  FROM subscriptions s
			  JOIN services sv ON sv.id = s.service_id
			  JOIN profiles p ON p.subscription_id = s.id AND p.is_active = TRUE
			  JOIN users u ON u.id = p.user_id
			  WHERE s.is_active = TRUE
			  ORDER BY s.id, p.created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.BillingSubscription
	var current *models.BillingSubscription
	for rows.Next() {
		var subID, serviceName, profileID, userID, userEmail, userName string
		var monthlyCost float64
		if err := rows.Scan(&subID, &serviceName, &monthlyCost,
			&profileID, &userID, &userEmail, &userName); err != nil {
			return nil, wrapError(op, err)
		}
		if current == nil || current.SubscriptionID != subID {
			current = &models.BillingSubscription{
				SubscriptionID: subID,
				ServiceName:    serviceName,
				MonthlyCost:    monthlyCost,
			}
			result = append(result, current)
		}
		current.Profiles = append(current.Profiles, models.BillingProfile{
			ProfileID: profileID,
			UserID:    userID,
			UserEmail: userEmail,
			UserName:  userName,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, wrapError(op, err)
	}
	return result, nil
}

// CountActiveSubscriptions возвращает число активных подписок.
func (s *Storage) CountActiveSubscriptions(ctx context.Context) (int, error) {
	const op = "storage.CountActiveSubscriptions"
	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE is_active = TRUE`).Scan(&total); err != nil {
		return 0, wrapError(op, err)
	}
	return total, nil
}
