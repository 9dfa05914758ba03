package services

import (
	"errors"
	"fmt"
	"time"

	"bakeshop/internal/models"
	"bakeshop/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both unknown username and wrong
	// password so callers cannot probe for registered usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService handles registration, login and session token validation.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	sessionTTL time.Duration // Duration for which a session token is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: 24 * time.Hour,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q: %w", username, ErrUsernameTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil, fmt.Errorf("username %q: %w", username, ErrUsernameTaken)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed session token.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.sessionTTL).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSession parses and validates a session token, returning the
// authenticated user's id and username.
func (s *AuthService) ValidateSession(tokenString string) (userID, username string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid session token")
	}

	userID, _ = claims["user_id"].(string)
	username, _ = claims["username"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("session token is missing user claims")
	}
	return userID, username, nil
}
