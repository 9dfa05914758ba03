package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"bakeshop/internal/models"
	"bakeshop/internal/repositories"

	"github.com/google/uuid"
)

// ErrInvalidQuantity is returned when an order quantity is not a
// non-negative integer.
var ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")

// EventPublisher publishes order lifecycle events to a message broker.
// A nil publisher disables publishing.
type EventPublisher interface {
	Publish(event string, body []byte) error
}

// OrderFields holds the mutable fields of an order, as submitted by a
// form or an import row. The id is never part of it.
type OrderFields struct {
	CustomerName string
	OrderItem    string
	Quantity     int
	Status       string
	Price        *float64
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	events    EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		events:    events,
	}
}

// ListOrders retrieves all orders in insertion order.
func (s *OrderService) ListOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder creates a new order with a fresh id.
func (s *OrderService) CreateOrder(fields OrderFields) (*models.Order, error) {
	if fields.Quantity < 0 {
		return nil, fmt.Errorf("quantity %d: %w", fields.Quantity, ErrInvalidQuantity)
	}

	order := &models.Order{
		ID:           uuid.New().String(),
		CustomerName: fields.CustomerName,
		OrderItem:    fields.OrderItem,
		Quantity:     fields.Quantity,
		Status:       fields.Status,
		Price:        fields.Price,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id": order.ID,
		"customer": order.CustomerName,
		"status":   order.Status,
	})
	return order, nil
}

// UpdateOrder replaces all mutable fields of an existing order. The id
// itself is immutable.
func (s *OrderService) UpdateOrder(id string, fields OrderFields) error {
	if fields.Quantity < 0 {
		return fmt.Errorf("quantity %d: %w", fields.Quantity, ErrInvalidQuantity)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}

	order.CustomerName = fields.CustomerName
	order.OrderItem = fields.OrderItem
	order.Quantity = fields.Quantity
	order.Status = fields.Status
	order.Price = fields.Price
	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}

	s.publishEvent("order.updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return nil
}

// DeleteOrder deletes an order by its ID.
func (s *OrderService) DeleteOrder(id string) error {
	if err := s.orderRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent("order.deleted", map[string]interface{}{
		"order_id": id,
	})
	return nil
}

// publishEvent sends a lifecycle event when a broker is configured.
// Publish failures are logged, never surfaced; the order mutation has
// already been committed.
func (s *OrderService) publishEvent(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := s.events.Publish(event, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
