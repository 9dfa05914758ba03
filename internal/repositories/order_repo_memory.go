package repositories

import (
	"fmt"
	"sync"
	"time"

	"bakeshop/internal/models"

	"github.com/google/uuid"
)

// InMemoryOrderRepository is an in-memory implementation of OrderRepository.
// It is slice-backed so GetAll preserves insertion order.
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

// NewInMemoryOrderRepository creates a new instance of InMemoryOrderRepository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{}
}

// GetAll returns all orders in insertion order.
func (r *InMemoryOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, len(r.orders))
	copy(orderList, r.orders)
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *InMemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.ID == id {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order ID %s: %w", id, ErrOrderNotFound)
}

// Create appends a new order.
func (r *InMemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders = append(r.orders, *order)
	return nil
}

// Update replaces the stored order with the same ID.
func (r *InMemoryOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == order.ID {
			order.CreatedAt = r.orders[i].CreatedAt
			order.UpdatedAt = time.Now()
			r.orders[i] = *order
			return nil
		}
	}
	return fmt.Errorf("order ID %s: %w", order.ID, ErrOrderNotFound)
}

// Delete removes the order with the given ID.
func (r *InMemoryOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("order ID %s: %w", id, ErrOrderNotFound)
}
