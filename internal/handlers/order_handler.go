package handlers

import (
	"errors"
	"log"
	"strings"

	"productkart/internal/middleware"
	"productkart/internal/models"
	"productkart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All
// order routes require authentication; listing every order and marking
// delivery are admin only. "/myorders" must register before "/:id".
func (h *OrderHandler) RegisterRoutes(router fiber.Router, protect, adminOnly fiber.Handler) {
	orders := router.Group("/orders", protect)
	orders.Post("/", h.HandleCreateOrder)
	orders.Get("/myorders", h.HandleListMyOrders)
	orders.Get("/", adminOnly, h.HandleListOrders)
	orders.Get("/:id", h.HandleGetOrderByID)
	orders.Put("/:id/pay", h.HandlePayOrder)
	orders.Put("/:id/deliver", adminOnly, h.HandleDeliverOrder)
}

// HandleCreateOrder places a new order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.Order
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.PlaceOrder(middleware.UserID(c), &req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		switch {
		case errors.Is(err, services.ErrEmptyOrder):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "No order items",
			})
		case errors.Is(err, services.ErrPriceMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order totals do not match",
			})
		case strings.Contains(err.Error(), "not found"),
			strings.Contains(err.Error(), "insufficient stock"),
			strings.Contains(err.Error(), "invalid quantity"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListMyOrders returns the authenticated user's orders.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListMyOrders(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleListOrders returns every order (admin).
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders()
	if err != nil {
		log.Printf("Error listing all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order visible to the requester.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(orderID, middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return orderError(c, orderID, err)
	}
	return c.JSON(order)
}

// HandlePayOrder marks an order as paid and returns the new state.
func (h *OrderHandler) HandlePayOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.PayOrder(orderID, middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return orderError(c, orderID, err)
	}
	return c.JSON(order)
}

// HandleDeliverOrder marks an order as delivered (admin) and returns the
// new state.
func (h *OrderHandler) HandleDeliverOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.DeliverOrder(orderID)
	if err != nil {
		return orderError(c, orderID, err)
	}
	return c.JSON(order)
}

// orderError maps order service failures onto HTTP statuses.
func orderError(c *fiber.Ctx, orderID string, err error) error {
	log.Printf("Order %s error: %v", orderID, err)
	switch {
	case errors.Is(err, services.ErrNotOrderOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized to access this order",
		})
	case strings.Contains(err.Error(), "not found"):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process order",
		"error":   err.Error(),
	})
}
