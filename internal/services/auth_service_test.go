package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"bakeshop/internal/models"
	"bakeshop/internal/repositories"
	"bakeshop/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	// Successful registration stores a bcrypt hash, not the plaintext
	mockRepo.On("GetByUsername", "bob").Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.Register("bob", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Registering the same username again fails with ErrUsernameTaken
	mockRepo.On("GetByUsername", "bob").Return(&models.User{ID: "1", Username: "bob"}, nil).Once()
	_, err = authService.Register("bob", "other")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// A registration racing past the pre-check hits the unique index;
	// the constraint violation reports as the same duplicate condition
	mockRepo.On("GetByUsername", "eve").Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("username eve: %w", repositories.ErrDuplicateUsername)).Once()
	_, err = authService.Register("eve", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "bob",
		Password: string(hashedPassword),
	}

	// Successful login yields a token the service itself accepts
	mockRepo.On("GetByUsername", "bob").Return(user, nil).Once()
	token, err := authService.Login("bob", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, username, err := authService.ValidateSession(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "bob", username)
	mockRepo.AssertExpectations(t)

	// Wrong password fails
	mockRepo.On("GetByUsername", "bob").Return(user, nil).Once()
	_, errWrongPassword := authService.Login("bob", "wrong")
	assert.ErrorIs(t, errWrongPassword, services.ErrInvalidCredentials)

	// Unknown user fails indistinguishably from a wrong password
	mockRepo.On("GetByUsername", "nobody").Return(nil, repositories.ErrUserNotFound).Once()
	_, errUnknownUser := authService.Login("nobody", "password123")
	assert.ErrorIs(t, errUnknownUser, services.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateSession(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	newToken := func(secret string, exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":  "user-123",
			"username": "bob",
			"exp":      exp.Unix(),
			"iat":      time.Now().Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		assert.NoError(t, err)
		return signed
	}

	// Valid token
	userID, username, err := authService.ValidateSession(newToken("test_jwt_secret", time.Now().Add(time.Hour)))
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "bob", username)

	// Expired token
	_, _, err = authService.ValidateSession(newToken("test_jwt_secret", time.Now().Add(-time.Hour)))
	assert.Error(t, err)

	// Token signed with a different secret
	_, _, err = authService.ValidateSession(newToken("other_secret", time.Now().Add(time.Hour)))
	assert.Error(t, err)

	// Garbage token
	_, _, err = authService.ValidateSession("not.a.token")
	assert.Error(t, err)
}
