// Package services содержит бизнес-логику ShareBill: аутентификацию,
// справочник сервисов, подписки, профили, платежи, выписки и баланс.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sharebill/sharebill/internal/lib/jwt"
	"github.com/sharebill/sharebill/internal/lib/password"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
	"github.com/sharebill/sharebill/internal/storage/repository"
)

// Ошибки бизнес-логики, которые хендлеры переводят в HTTP-статусы.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const resetTokenTTL = 30 * time.Minute

// Интерфейс репозитория пользователей для аутентификации.
type AuthRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, name, role, passwordHash *string, mustChangePassword *bool) (int, error)
	UpdateUserPasswordByEmail(ctx context.Context, email, passwordHash string) (int, error)
	CreateResetToken(ctx context.Context, token, email string, expiresAt time.Time) error
	GetResetToken(ctx context.Context, token string) (*models.ResetToken, error)
	DeleteResetToken(ctx context.Context, token string) error
}

// EmailEnqueuer публикует задание на отправку письма в очередь уведомлений.
type EmailEnqueuer interface {
	PublishEmail(job models.EmailJob) error
}

// AuthService реализует вход, смену и восстановление пароля.
type AuthService struct {
	users    AuthRepository
	jwtMaker jwt.Maker
	emails   EmailEnqueuer
	log      *slog.Logger
}

func NewAuthService(users AuthRepository, jwtMaker jwt.Maker, emails EmailEnqueuer, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		emails:   emails,
		log:      log,
	}
}

// Login проверяет пароль и возвращает JWT вместе с пользователем.
// Флаг MustChangePassword сообщает клиенту, что временный пароль надо сменить.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword меняет пароль пользователя после проверки старого
// и снимает флаг обязательной смены.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	mustChange := false
	if _, err := s.users.UpdateUser(ctx, userID, nil, nil, &hashed, &mustChange); err != nil {
		return err
	}
	s.log.Info("password changed", slog.String("user_id", userID))
	return nil
}

// RequestReset создает одноразовый токен восстановления и отправляет его
// на почту. Для неизвестного email ничего не сообщает наружу, чтобы
// не раскрывать список пользователей.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expiresAt := time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.CreateResetToken(ctx, token, user.Email, expiresAt); err != nil {
		return err
	}

	job := models.EmailJob{
		To:      user.Email,
		Subject: "Восстановление пароля ShareBill",
		HTML: fmt.Sprintf("<p>Здравствуйте, %s!</p><p>Ваш код восстановления пароля: <b>%s</b>.</p><p>Код действует 30 минут.</p>",
			user.Name, token),
	}
	if err := s.emails.PublishEmail(job); err != nil {
		s.log.Error("failed to enqueue reset email", sl.Err(err))
		return err
	}
	s.log.Info("reset token issued", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword устанавливает новый пароль по действующему токену
// восстановления и гасит токен.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	resetToken, err := s.users.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if time.Now().UTC().After(resetToken.ExpiresAt) {
		_ = s.users.DeleteResetToken(ctx, token)
		return ErrInvalidToken
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.UpdateUserPasswordByEmail(ctx, resetToken.Email, hashed); err != nil {
		return err
	}
	if err := s.users.DeleteResetToken(ctx, token); err != nil {
		s.log.Warn("failed to delete used reset token", sl.Err(err))
	}
	s.log.Info("password reset completed")
	return nil
}
