package handlers

import (
	"errors"
	"log"
	"strconv"

	"bakeshop/internal/repositories"
	"bakeshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for order CRUD.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. The router is expected to
// already carry the session middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleListOrders)
	router.Get("/add_order", h.ShowAddOrderForm)
	router.Post("/add_order", h.HandleAddOrder)
	router.Get("/edit_order/:id", h.ShowEditOrderForm)
	router.Post("/edit_order/:id", h.HandleEditOrder)
	router.Post("/delete_order/:id", h.HandleDeleteOrder)
}

// OrderForm represents the add/edit order form fields. Quantity and
// price arrive as text and are coerced explicitly.
type OrderForm struct {
	CustomerName string `form:"customer_name" validate:"required,max=150"`
	OrderItem    string `form:"order_item" validate:"required,max=200"`
	Quantity     string `form:"quantity" validate:"required"`
	Status       string `form:"status" validate:"required,max=50"`
	Price        string `form:"price"`
}

// toFields coerces the form values into typed order fields. A quantity
// that is not a non-negative integer fails the whole submission.
func (f *OrderForm) toFields() (services.OrderFields, error) {
	quantity, err := strconv.Atoi(f.Quantity)
	if err != nil || quantity < 0 {
		return services.OrderFields{}, services.ErrInvalidQuantity
	}

	fields := services.OrderFields{
		CustomerName: f.CustomerName,
		OrderItem:    f.OrderItem,
		Quantity:     quantity,
		Status:       f.Status,
	}
	if f.Price != "" {
		price, err := strconv.ParseFloat(f.Price, 64)
		if err != nil {
			return services.OrderFields{}, errors.New("price must be a number")
		}
		fields.Price = &price
	}
	return fields, nil
}

// HandleListOrders renders the order list.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders()
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not retrieve orders")
	}
	return c.Render("orders", fiber.Map{
		"Orders":   orders,
		"Username": c.Locals("username"),
	})
}

// ShowAddOrderForm renders the empty order form.
func (h *OrderHandler) ShowAddOrderForm(c *fiber.Ctx) error {
	return c.Render("add_order", fiber.Map{})
}

// HandleAddOrder creates a new order from the submitted form.
func (h *OrderHandler) HandleAddOrder(c *fiber.Ctx) error {
	form, errMsg := h.parseOrderForm(c)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).Render("add_order", fiber.Map{
			"Error": errMsg,
		})
	}

	fields, err := form.toFields()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("add_order", fiber.Map{
			"Error": err.Error(),
		})
	}

	if _, err := h.service.CreateOrder(fields); err != nil {
		log.Printf("Error creating order: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not create order")
	}
	return c.Redirect("/orders", fiber.StatusSeeOther)
}

// ShowEditOrderForm renders the form prefilled with the existing order.
func (h *OrderHandler) ShowEditOrderForm(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Order not found")
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not retrieve order")
	}
	return c.Render("edit_order", fiber.Map{
		"Order": order,
	})
}

// HandleEditOrder replaces the mutable fields of an existing order.
func (h *OrderHandler) HandleEditOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")

	order, err := h.service.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Order not found")
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not retrieve order")
	}

	form, errMsg := h.parseOrderForm(c)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).Render("edit_order", fiber.Map{
			"Order": order,
			"Error": errMsg,
		})
	}

	fields, err := form.toFields()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("edit_order", fiber.Map{
			"Order": order,
			"Error": err.Error(),
		})
	}

	if err := h.service.UpdateOrder(orderID, fields); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Order not found")
		}
		log.Printf("Error updating order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update order")
	}
	return c.Redirect("/orders", fiber.StatusSeeOther)
}

// HandleDeleteOrder deletes an order.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.DeleteOrder(orderID); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Order not found")
		}
		log.Printf("Error deleting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not delete order")
	}
	return c.Redirect("/orders", fiber.StatusSeeOther)
}

// parseOrderForm binds and validates the order form, returning a
// user-facing message when the submission is unusable.
func (h *OrderHandler) parseOrderForm(c *fiber.Ctx) (OrderForm, string) {
	var form OrderForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing order form: %v", err)
		return form, "Invalid form submission"
	}
	if err := h.validate.Struct(form); err != nil {
		return form, "Customer name, order item, quantity and status are required"
	}
	return form, ""
}
