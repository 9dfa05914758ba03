package repositories

import (
	"errors"

	"bakeshop/internal/models"
)

var (
	// ErrUserNotFound is returned when a lookup matches no user row.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when Create hits the unique
	// username index.
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
