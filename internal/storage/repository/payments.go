package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sharebill/sharebill/internal/models"
)

// CreatePayment вставляет новый платёж и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_id, amount, method, notes)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		payment.UserID, payment.Amount, payment.Method, payment.Notes).Scan(&newID)
	if err != nil {
		return "", wrapError(op, err)
	}
	return newID, nil
}

// ListPayments возвращает страницу платежей. Поиск матчит способ оплаты,
// заметки и email пользователя.
func (s *Storage) ListPayments(ctx context.Context, opts models.ListOptions) ([]*models.Payment, int, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pattern := "%" + opts.Query + "%"

	var total int
	countQuery := `SELECT COUNT(*)
				   FROM payments p
				   JOIN users u ON u.id = p.user_id
				   WHERE p.method ILIKE $1
				      OR COALESCE(p.notes, '') ILIKE $1
				      OR COALESCE(u.email, '') ILIKE $1`
	if err := s.DB.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, wrapError(op, err)
	}

	query := fmt.Sprintf(`SELECT p.id, p.user_id, p.amount, p.method, p.notes,
			      p.paid_at, p.created_at, COALESCE(u.email, '')
			  FROM payments p
			  JOIN users u ON u.id = p.user_id
			  WHERE p.method ILIKE $1
			     OR COALESCE(p.notes, '') ILIKE $1
			     OR COALESCE(u.email, '') ILIKE $1
			  ORDER BY p.%s %s
			  LIMIT $2 OFFSET $3`, opts.Sort, opts.Dir)
	rows, err := s.DB.QueryContext(ctx, query, pattern, opts.PageSize, opts.Offset())
	if err != nil {
		return nil, 0, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var notes sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &notes,
			&p.PaidAt, &p.CreatedAt, &p.UserEmail); err != nil {
			return nil, 0, wrapError(op, err)
		}
		if notes.Valid {
			p.Notes = &notes.String
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapError(op, err)
	}
	return result, total, nil
}

// ListRecentPaymentsByUser возвращает последние платежи пользователя.
func (s *Storage) ListRecentPaymentsByUser(ctx context.Context, userID string, limit int) ([]*models.Payment, error) {
	const op = "storage.ListRecentPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, amount, method, notes, paid_at, created_at
			  FROM payments
			  WHERE user_id = $1
			  ORDER BY paid_at DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var notes sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &notes,
			&p.PaidAt, &p.CreatedAt); err != nil {
			return nil, wrapError(op, err)
		}
		if notes.Valid {
			p.Notes = &notes.String
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapError(op, err)
	}
	return result, nil
}

// UpdatePayment обновляет сумму, способ и заметки платежа.
// Поля-указатели со значением nil не меняются.
func (s *Storage) UpdatePayment(ctx context.Context, id string, patch models.DummyPaymentPatch) (int, error) {
	const op = "storage.UpdatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET amount = COALESCE($1, amount),
			      method = COALESCE($2, method),
			      notes = COALESCE($3, notes)
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, patch.Amount, patch.Method, patch.Notes, id)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// DeletePayment удаляет платёж по ID и возвращает количество удалённых строк.
func (s *Storage) DeletePayment(ctx context.Context, id string) (int, error) {
	const op = "storage.DeletePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM payments WHERE id = $1`
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

// SumPaymentsByUser суммирует все платежи пользователя.
func (s *Storage) SumPaymentsByUser(ctx context.Context, userID string) (float64, error) {
	const op = "storage.SumPaymentsByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE user_id = $1`
	var total float64
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, wrapError(op, err)
	}
	return total, nil
}
