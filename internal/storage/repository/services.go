package repository

import (
	"context"
	"fmt"

	"github.com/sharebill/sharebill/internal/models"
)

// CreateService вставляет новый сервис и возвращает его ID.
func (s *Storage) CreateService(ctx context.Context, svc models.Service) (string, error) {
	const op = "storage.CreateService"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO services (name, monthly_cost, max_profiles, is_active)
			  VALUES ($1, $2, $3, TRUE)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query, svc.Name, svc.MonthlyCost, svc.MaxProfiles).Scan(&newID)
	if err != nil {
		return "", wrapError(op, err)
	}
	return newID, nil
}

// GetService возвращает сервис по ID.
func (s *Storage) GetService(ctx context.Context, id string) (*models.Service, error) {
	const op = "storage.GetService"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, monthly_cost, max_profiles, is_active, created_at
			  FROM services
			  WHERE id = $1`
	var svc models.Service
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&svc.ID, &svc.Name, &svc.MonthlyCost, &svc.MaxProfiles,
		&svc.IsActive, &svc.CreatedAt); err != nil {
		return nil, wrapError(op, err)
	}
	return &svc, nil
}

// ListActiveServices возвращает все активные сервисы без пагинации.
func (s *Storage) ListActiveServices(ctx context.Context) ([]*models.Service, error) {
	const op = "storage.ListActiveServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, monthly_cost, max_profiles, is_active, created_at
			  FROM services
			  WHERE is_active = TRUE
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.MonthlyCost, &svc.MaxProfiles,
			&svc.IsActive, &svc.CreatedAt); err != nil {
			return nil, wrapError(op, err)
		}
		result = append(result, &svc)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapError(op, err)
	}
	return result, nil
}

// ListServices возвращает страницу активных сервисов с поиском по названию.
func (s *Storage) ListServices(ctx context.Context, opts models.ListOptions) ([]*models.Service, int, error) {
	const op = "storage.ListServices"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pattern := "%" + opts.Query + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM services
				   WHERE is_active = TRUE AND name ILIKE $1`
	if err := s.DB.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, wrapError(op, err)
	}

	query := fmt.Sprintf(`SELECT id, name, monthly_cost, max_profiles, is_active, created_at
			  FROM services
			  WHERE is_active = TRUE AND name ILIKE $1
			  ORDER BY %s %s
			  LIMIT $2 OFFSET $3`, opts.Sort, opts.Dir)
	rows, err := s.DB.QueryContext(ctx, query, pattern, opts.PageSize, opts.Offset())
	if err != nil {
		return nil, 0, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.MonthlyCost, &svc.MaxProfiles,
			&svc.IsActive, &svc.CreatedAt); err != nil {
			return nil, 0, wrapError(op, err)
		}
		result = append(result, &svc)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapError(op, err)
	}
	return result, total, nil
}

// UpdateService обновляет поля сервиса. Поля-указатели со значением nil не меняются.
func (s *Storage) UpdateService(ctx context.Context, id string, patch models.DummyServicePatch) (int, error) {
	const op = "storage.UpdateService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE services
			  SET name = COALESCE($1, name),
			      monthly_cost = COALESCE($2, monthly_cost),
			      max_profiles = COALESCE($3, max_profiles),
			      is_active = COALESCE($4, is_active)
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		patch.Name, patch.MonthlyCost, patch.MaxProfiles, patch.IsActive, id)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// DeleteService удаляет сервис по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteService(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM services WHERE id = $1`
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

// CountActiveServices возвращает число активных сервисов.
func (s *Storage) CountActiveServices(ctx context.Context) (int, error) {
	const op = "storage.CountActiveServices"
	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM services WHERE is_active = TRUE`).Scan(&total); err != nil {
		return 0, wrapError(op, err)
	}
	return total, nil
}
