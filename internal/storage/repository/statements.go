package repository

import (
	"context"
	"fmt"

	"github.com/sharebill/sharebill/internal/models"
)

// UpsertStatement создаёт выписку за месяц или возвращает ID существующей.
// Ключ идемпотентности — уникальность (subscription_id, month, year);
// повторный запуск генерации не создаёт дубликатов.
func (s *Storage) UpsertStatement(ctx context.Context, subscriptionID string, month, year int) (string, error) {
	const op = "storage.UpsertStatement"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO statements (subscription_id, month, year)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (subscription_id, month, year)
			  DO UPDATE SET subscription_id = EXCLUDED.subscription_id
			  RETURNING id`
	var id string
	err := s.DB.QueryRowContext(ctx, query, subscriptionID, month, year).Scan(&id)
	if err != nil {
		return "", wrapError(op, err)
	}
	return id, nil
}

// UpsertStatementItem создаёт позицию выписки или обновляет её сумму.
// Статус существующей позиции при повторной генерации не трогается.
func (s *Storage) UpsertStatementItem(ctx context.Context, statementID, userID string, amountDue float64) (string, error) {
	const op = "storage.UpsertStatementItem"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO statement_items (statement_id, user_id, amount_due)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (statement_id, user_id)
			  DO UPDATE SET amount_due = EXCLUDED.amount_due
			  RETURNING id`
	var id string
	err := s.DB.QueryRowContext(ctx, query, statementID, userID, amountDue).Scan(&id)
	if err != nil {
		return "", wrapError(op, err)
	}
	return id, nil
}

// ListStatements возвращает страницу выписок с вложенными позициями,
// упорядоченную по году и месяцу по убыванию.
func (s *Storage) ListStatements(ctx context.Context, limit, offset int) ([]*models.Statement, int, error) {
	const op = "storage.ListStatements"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM statements`).Scan(&total); err != nil {
		return nil, 0, wrapError(op, err)
	}

	query := `SELECT id, subscription_id, month, year, created_at
			  FROM statements
			  ORDER BY year DESC, month DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Statement
	byID := make(map[string]*models.Statement)
	var ids []any
	for rows.Next() {
		var st models.Statement
		if err := rows.Scan(&st.ID, &st.SubscriptionID, &st.Month, &st.Year, &st.CreatedAt); err != nil {
			return nil, 0, wrapError(op, err)
		}
		st.Items = []models.StatementItem{}
		result = append(result, &st)
		byID[st.ID] = result[len(result)-1]
		ids = append(ids, st.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapError(op, err)
	}
	if len(result) == 0 {
		return result, total, nil
	}

	placeholders := ""
	for i := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
	}
	itemsQuery := fmt.Sprintf(`SELECT id, statement_id, user_id, amount_due, status, created_at
			  FROM statement_items
			  WHERE statement_id IN (%s)
			  ORDER BY created_at`, placeholders)
	itemRows, err := s.DB.QueryContext(ctx, itemsQuery, ids...)
	if err != nil {
		return nil, 0, wrapError(op, err)
	}
	defer func() {
		_ = itemRows.Close()
	}()

	for itemRows.Next() {
		var item models.StatementItem
		if err := itemRows.Scan(&item.ID, &item.StatementID, &item.UserID,
			&item.AmountDue, &item.Status, &item.CreatedAt); err != nil {
			return nil, 0, wrapError(op, err)
		}
		if st, ok := byID[item.StatementID]; ok {
			st.Items = append(st.Items, item)
		}
	}
	if err = itemRows.Err(); err != nil {
		return nil, 0, wrapError(op, err)
	}
	return result, total, nil
}

// UpdateStatementItem вручную корректирует статус и сумму позиции выписки.
// Поля-указатели со значением nil не меняются.
func (s *Storage) UpdateStatementItem(ctx context.Context, id string, status *string, amountDue *float64) (int, error) {
	const op = "storage.UpdateStatementItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE statement_items
			  SET status = COALESCE($1, status),
			      amount_due = COALESCE($2, amount_due)
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, status, amountDue, id)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// SumAmountDueByUser суммирует все позиции выписок пользователя независимо
// от статуса. CREDIT и PAID позиции тоже входят в сумму.
func (s *Storage) SumAmountDueByUser(ctx context.Context, userID string) (float64, error) {
	const op = "storage.SumAmountDueByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount_due), 0) FROM statement_items WHERE user_id = $1`
	var total float64
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, wrapError(op, err)
	}
	return total, nil
}

// CountStatements возвращает общее число выписок.
func (s *Storage) CountStatements(ctx context.Context) (int, error) {
	const op = "storage.CountStatements"
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM statements`).Scan(&total); err != nil {
		return 0, wrapError(op, err)
	}
	return total, nil
}
