package service

import (
	"testing"

	"studylib/internal/domain/user/model"
	"studylib/internal/pkg/config"
	"studylib/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func init() {
	config.GlobalConfig.JWT.Secret = "unit-test-secret-0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 24
}

func TestRegister(t *testing.T) {
	t.Run("new user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "asha@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

		user, err := service.Register("Asha", "Asha@Example.com ", "secret123", "9876543210")

		assert.NoError(t, err)
		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.NotEqual(t, "secret123", user.Password)
		mockRepo.AssertExpectations(t)
	})

	t.Run("email already registered", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		existing := &model.User{Email: "asha@example.com"}
		mockRepo.On("GetByEmail", "asha@example.com").Return(existing, nil)

		_, err := service.Register("Asha", "asha@example.com", "secret123", "")

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	account := func() *model.User {
		u := &model.User{
			Name:     "Asha",
			Email:    "asha@example.com",
			Password: string(hashed),
			Role:     model.RoleUser,
			Status:   model.StatusNormal,
		}
		u.ID = "user-1"
		return u
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "asha@example.com").Return(account(), nil)

		token, user, err := service.Login("asha@example.com", "secret123")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)

		claims, err := utils.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, model.RoleUser, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "asha@example.com").Return(account(), nil)

		_, _, err := service.Login("asha@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := service.Login("nobody@example.com", "secret123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("banned account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		banned := account()
		banned.Status = model.StatusBanned
		mockRepo.On("GetByEmail", "asha@example.com").Return(banned, nil)

		_, _, err := service.Login("asha@example.com", "secret123")

		assert.ErrorIs(t, err, ErrAccountBanned)
	})
}
