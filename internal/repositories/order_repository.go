package repositories

import (
	"errors"

	"bakeshop/internal/models"
)

// ErrOrderNotFound is returned when an order id matches no row.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access.
// GetAll returns orders in insertion order, which the export format
// depends on.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	Delete(id string) error
}
