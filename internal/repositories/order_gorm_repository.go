package repositories

import (
	"errors"
	"fmt"

	"bakeshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders from the database in insertion order.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID from the database.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order ID %s: %w", id, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update updates the mutable fields of an existing order. An explicit
// column map keeps zero values (quantity 0, cleared price) and makes a
// missing row observable; Save would silently insert one instead.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"customer_name": order.CustomerName,
		"order_item":    order.OrderItem,
		"quantity":      order.Quantity,
		"status":        order.Status,
		"price":         order.Price,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order ID %s: %w", order.ID, ErrOrderNotFound)
	}
	return nil
}

// Delete deletes an order by its ID from the database.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order ID %s: %w", id, ErrOrderNotFound)
	}
	return nil
}
