package models

import "gorm.io/gorm"

// Order represents a single bakery order as taken at the counter.
// Orders are not linked to the user who entered them.
type Order struct {
	ID           string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CustomerName string   `json:"customer_name" gorm:"type:varchar(150);not null" validate:"required,max=150"`
	OrderItem    string   `json:"order_item" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Quantity     int      `json:"quantity" gorm:"not null" validate:"gte=0"`
	Status       string   `json:"status" gorm:"type:varchar(50);not null" validate:"required,max=50"` // e.g., "pending", "baking", "ready", "delivered"
	Price        *float64 `json:"price,omitempty"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
