package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sharebill/sharebill/internal/lib/password"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
)

// Интерфейс репозитория пользователей для административного CRUD.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	ListUsers(ctx context.Context, opts models.ListOptions) ([]*models.User, int, error)
	UpdateUser(ctx context.Context, id string, name, role, passwordHash *string, mustChangePassword *bool) (int, error)
	DeleteUser(ctx context.Context, id string) (int, error)
}

// UserService реализует управление пользователями администратором.
// Пароль при создании не задается: генерируется временный, который
// пользователь обязан сменить при первом входе.
type UserService struct {
	users  UserRepository
	emails EmailEnqueuer
	log    *slog.Logger
}

func NewUserService(users UserRepository, emails EmailEnqueuer, log *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		emails: emails,
		log:    log,
	}
}

// Create создает пользователя с временным паролем. Временный пароль
// возвращается администратору и, если у пользователя есть почта,
// отправляется письмом.
func (s *UserService) Create(ctx context.Context, req models.DummyUser) (string, string, error) {
	tempPassword, err := password.GenerateTemp()
	if err != nil {
		return "", "", err
	}
	hashed, err := password.GetHash(tempPassword)
	if err != nil {
		return "", "", err
	}

	user := models.User{
		Email:              req.Email,
		Name:               req.Name,
		PasswordHash:       hashed,
		Role:               req.Role,
		MustChangePassword: true,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", "", err
	}
	s.log.Info("created new user", slog.String("id", id), slog.String("role", req.Role))

	if req.Email != "" {
		job := models.EmailJob{
			To:      req.Email,
			Subject: "Добро пожаловать в ShareBill",
			HTML: fmt.Sprintf("<p>Здравствуйте, %s!</p><p>Для вас создан аккаунт в ShareBill.</p><p>Временный пароль: <b>%s</b>. Смените его при первом входе.</p>",
				req.Name, tempPassword),
		}
		if err := s.emails.PublishEmail(job); err != nil {
			s.log.Error("failed to enqueue welcome email", sl.Err(err))
		}
	}

	return id, tempPassword, nil
}

func (s *UserService) List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.User], error) {
	items, total, err := s.users.ListUsers(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[*models.User]{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

// Update меняет имя или роль пользователя. При reset_password=true
// дополнительно генерируется новый временный пароль, который возвращается
// администратору, а пользователь обязан сменить его при входе.
func (s *UserService) Update(ctx context.Context, id string, patch models.DummyUserPatch) (int, string, error) {
	var hash *string
	var mustChange *bool
	tempPassword := ""

	if patch.ResetPassword != nil && *patch.ResetPassword {
		generated, err := password.GenerateTemp()
		if err != nil {
			return 0, "", err
		}
		hashed, err := password.GetHash(generated)
		if err != nil {
			return 0, "", err
		}
		tempPassword = generated
		hash = &hashed
		flag := true
		mustChange = &flag
	}

	count, err := s.users.UpdateUser(ctx, id, patch.Name, patch.Role, hash, mustChange)
	if err != nil {
		return 0, "", err
	}
	if count == 0 {
		return 0, "", nil
	}
	return count, tempPassword, nil
}

func (s *UserService) Remove(ctx context.Context, id string) (int, error) {
	return s.users.DeleteUser(ctx, id)
}
