package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sharebill/sharebill/internal/lib/password"
	"github.com/sharebill/sharebill/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UserRepoMock) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserRepoMock) ListUsers(ctx context.Context, opts models.ListOptions) ([]*models.User, int, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
}
func (m *UserRepoMock) UpdateUser(ctx context.Context, id string, name, role, passwordHash *string, mustChangePassword *bool) (int, error) {
	args := m.Called(ctx, id, name, role, passwordHash, mustChangePassword)
	return args.Int(0), args.Error(1)
}
func (m *UserRepoMock) DeleteUser(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func TestUserService_Create(t *testing.T) {
	t.Run("with email sends welcome letter", func(t *testing.T) {
		repo := new(UserRepoMock)
		publisher := new(PublisherMock)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "bob@example.com" && u.Name == "Bob" &&
				u.Role == models.RoleUser && u.MustChangePassword && u.PasswordHash != ""
		})).Return("u1", nil).Once()
		publisher.On("PublishEmail", mock.MatchedBy(func(job models.EmailJob) bool {
			return job.To == "bob@example.com" && strings.Contains(job.HTML, "Временный пароль")
		})).Return(nil).Once()

		svc := NewUserService(repo, publisher, newNoopLogger())
		id, tempPassword, err := svc.Create(context.Background(), models.DummyUser{
			Email: "bob@example.com",
			Name:  "Bob",
			Role:  models.RoleUser,
		})

		assert.NoError(t, err)
		assert.Equal(t, "u1", id)
		assert.Len(t, tempPassword, 12)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("without email skips letter", func(t *testing.T) {
		repo := new(UserRepoMock)
		publisher := new(PublisherMock)
		var createdHash string
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			createdHash = u.PasswordHash
			return u.Email == "" && u.MustChangePassword
		})).Return("u2", nil).Once()

		svc := NewUserService(repo, publisher, newNoopLogger())
		_, tempPassword, err := svc.Create(context.Background(), models.DummyUser{
			Name: "Kid",
			Role: models.RoleUser,
		})

		assert.NoError(t, err)
		assert.NoError(t, password.CompareHash(createdHash, tempPassword))
		publisher.AssertNotCalled(t, "PublishEmail", mock.Anything)
	})
}

func TestUserService_List(t *testing.T) {
	repo := new(UserRepoMock)
	opts := models.ListOptions{Page: 1, PageSize: 10, Sort: "created_at", Dir: "desc"}
	users := []*models.User{{ID: "u1", Name: "Alice"}, {ID: "u2", Name: "Bob"}}
	repo.On("ListUsers", mock.Anything, opts).Return(users, 2, nil).Once()

	svc := NewUserService(repo, new(PublisherMock), newNoopLogger())
	result, err := svc.List(context.Background(), opts)

	assert.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.Total)
	repo.AssertExpectations(t)
}

func TestUserService_Update(t *testing.T) {
	repo := new(UserRepoMock)
	name := "Alice Cooper"
	repo.On("UpdateUser", mock.Anything, "u1", &name, (*string)(nil), (*string)(nil), (*bool)(nil)).
		Return(1, nil).Once()

	svc := NewUserService(repo, new(PublisherMock), newNoopLogger())
	count, tempPassword, err := svc.Update(context.Background(), "u1", models.DummyUserPatch{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, tempPassword)
	repo.AssertExpectations(t)
}

func TestUserService_Update_ResetPassword(t *testing.T) {
	repo := new(UserRepoMock)
	var capturedHash string
	repo.On("UpdateUser", mock.Anything, "u1", (*string)(nil), (*string)(nil),
		mock.MatchedBy(func(hash *string) bool {
			if hash == nil {
				return false
			}
			capturedHash = *hash
			return true
		}),
		mock.MatchedBy(func(mustChange *bool) bool {
			return mustChange != nil && *mustChange
		})).
		Return(1, nil).Once()

	svc := NewUserService(repo, new(PublisherMock), newNoopLogger())
	reset := true
	count, tempPassword, err := svc.Update(context.Background(), "u1", models.DummyUserPatch{ResetPassword: &reset})

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NotEmpty(t, tempPassword)
	assert.NoError(t, password.CompareHash(capturedHash, tempPassword))
	repo.AssertExpectations(t)
}
