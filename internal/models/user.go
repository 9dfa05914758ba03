package models

import "gorm.io/gorm"

// User represents a staff account that can sign in to the order book.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
