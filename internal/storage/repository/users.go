package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sharebill/sharebill/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, name, password_hash, role, must_change_password)
			  VALUES (NULLIF($1, ''), $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role, user.MustChangePassword).Scan(&newID)
	if err != nil {
		return "", wrapError(op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, COALESCE(email, ''), name, password_hash, role, must_change_password, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.Role, &u.MustChangePassword, &u.CreatedAt); err != nil {
		return nil, wrapError(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, COALESCE(email, ''), name, password_hash, role, must_change_password, created_at
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.Role, &u.MustChangePassword, &u.CreatedAt); err != nil {
		return nil, wrapError(op, err)
	}
	return u, nil
}

// ListUsers возвращает страницу пользователей с поиском по email и имени.
func (s *Storage) ListUsers(ctx context.Context, opts models.ListOptions) ([]*models.User, int, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pattern := "%" + opts.Query + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM users
				   WHERE COALESCE(email, '') ILIKE $1 OR name ILIKE $1`
	if err := s.DB.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, wrapError(op, err)
	}

	query := fmt.Sprintf(`SELECT id, COALESCE(email, ''), name, password_hash, role, must_change_password, created_at
			  FROM users
			  WHERE COALESCE(email, '') ILIKE $1 OR name ILIKE $1
			  ORDER BY %s %s
			  LIMIT $2 OFFSET $3`, opts.Sort, opts.Dir)
	rows, err := s.DB.QueryContext(ctx, query, pattern, opts.PageSize, opts.Offset())
	if err != nil {
		return nil, 0, wrapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
			&u.Role, &u.MustChangePassword, &u.CreatedAt); err != nil {
			return nil, 0, wrapError(op, err)
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapError(op, err)
	}
	return result, total, nil
}

// UpdateUser обновляет имя, роль, хэш пароля и флаг смены пароля.
// Поля-указатели со значением nil не меняются.
func (s *Storage) UpdateUser(ctx context.Context, id string, name, role, passwordHash *string, mustChangePassword *bool) (int, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE($1, name),
			      role = COALESCE($2, role),
			      password_hash = COALESCE($3, password_hash),
			      must_change_password = COALESCE($4, must_change_password)
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query, name, role, passwordHash, mustChangePassword, id)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// UpdateUserPasswordByEmail устанавливает новый хэш пароля и снимает флаг
// обязательной смены пароля.
func (s *Storage) UpdateUserPasswordByEmail(ctx context.Context, email, passwordHash string) (int, error) {
	const op = "storage.UpdateUserPasswordByEmail"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1, must_change_password = FALSE
			  WHERE email = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		return 0, wrapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(op, err)
	}
	return int(rowsAffected), nil
}

// DeleteUser удаляет пользователя по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteUser(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE id = $1`
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

// CountUsers возвращает общее число пользователей.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, wrapError(op, err)
	}
	return total, nil
}

// CreateResetToken сохраняет одноразовый токен восстановления пароля.
func (s *Storage) CreateResetToken(ctx context.Context, token, email string, expiresAt time.Time) error {
	const op = "storage.CreateResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reset_tokens (token, email, expires_at) VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, token, email, expiresAt); err != nil {
		return wrapError(op, err)
	}
	return nil
}

// GetResetToken возвращает токен восстановления пароля.
func (s *Storage) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	const op = "storage.GetResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT token, email, expires_at FROM reset_tokens WHERE token = $1`
	rt := &models.ResetToken{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&rt.Token, &rt.Email, &rt.ExpiresAt); err != nil {
		return nil, wrapError(op, err)
	}
	return rt, nil
}

// DeleteResetToken удаляет использованный токен восстановления пароля.
func (s *Storage) DeleteResetToken(ctx context.Context, token string) error {
	const op = "storage.DeleteResetToken"
	query := `DELETE FROM reset_tokens WHERE token = $1`
	if _, err := s.DB.ExecContext(ctx, query, token); err != nil {
		return wrapError(op, err)
	}
	return nil
}
