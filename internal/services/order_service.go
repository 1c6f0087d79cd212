package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"productkart/internal/models"
	"productkart/internal/pricing"
	"productkart/internal/repositories"
	"productkart/pkg/rabbitmq"
)

// Sentinel errors handlers translate into HTTP statuses.
var (
	// ErrEmptyOrder is returned when an order is placed with no items.
	ErrEmptyOrder = errors.New("no order items")
	// ErrPriceMismatch is returned when the client-submitted totals do
	// not match the server-side recomputation.
	ErrPriceMismatch = errors.New("order totals do not match")
	// ErrNotOrderOwner is returned when a user reads or pays an order
	// they do not own and they are not an admin.
	ErrNotOrderOwner = errors.New("not authorized to access this order")
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// PlaceOrder validates and persists a new order for userID. Line items
// are snapshotted from the current product records, the submitted price
// breakdown is recomputed server-side and must agree to the cent, and
// stock is decremented per line. On success an order.created event is
// published.
func (s *OrderService) PlaceOrder(userID string, req *models.Order) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	// Snapshot each line from the product record so the order carries
	// the catalog state at purchase time, not whatever the client sent.
	items := make([]models.OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", item.ProductID, err)
		}
		if item.Qty <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for product %s", item.Qty, product.Name)
		}
		if product.CountInStock < item.Qty {
			return nil, fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d)", product.Name, item.Qty, product.CountInStock)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Qty:       item.Qty,
		})
		lines = append(lines, pricing.Line{Price: product.Price, Qty: item.Qty})
	}

	// The client computes the same quote as a display estimate; the
	// server recomputation is the authoritative one.
	quote := pricing.QuoteLines(lines)
	if !quote.Matches(req.ItemsPrice, req.ShippingPrice, req.TaxPrice, req.TotalPrice) {
		return nil, ErrPriceMismatch
	}

	// Decrement per line, undoing earlier lines if a later one fails so
	// a rejected order never leaks stock. Duplicate product lines are
	// valid API input; the guarded decrement catches their combined
	// quantity exceeding stock.
	decremented := make([]models.OrderItem, 0, len(items))
	restore := func() {
		for _, item := range decremented {
			if err := s.productRepo.RestoreStock(item.ProductID, item.Qty); err != nil {
				log.Printf("Warning: failed to restore %d units of product %s: %v", item.Qty, item.ProductID, err)
			}
		}
	}
	for _, item := range items {
		if err := s.productRepo.DecrementStock(item.ProductID, item.Qty); err != nil {
			restore()
			return nil, err
		}
		decremented = append(decremented, item)
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      quote.ItemsPrice,
		ShippingPrice:   quote.ShippingPrice,
		TaxPrice:        quote.TaxPrice,
		TotalPrice:      quote.TotalPrice,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.orderRepo.Create(order); err != nil {
		restore()
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publish(rabbitmq.OrderCreated, order)
	return order, nil
}

// GetOrder retrieves an order visible to the requester: its owner or an
// admin.
func (s *OrderService) GetOrder(id, requesterID string, isAdmin bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && !isAdmin {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// ListMyOrders retrieves the orders placed by userID.
func (s *OrderService) ListMyOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// ListAllOrders retrieves every order. Admin gating happens at the route
// level.
func (s *OrderService) ListAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// PayOrder marks an order as paid. Only the owner or an admin may pay.
// Paying an already-paid order is a no-op returning the current state.
func (s *OrderService) PayOrder(id, requesterID string, isAdmin bool) (*models.Order, error) {
	order, err := s.GetOrder(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return order, nil
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	if err := s.orderRepo.Save(order); err != nil {
		return nil, fmt.Errorf("failed to mark order %s paid: %w", id, err)
	}

	s.publish(rabbitmq.OrderPaid, order)
	return order, nil
}

// DeliverOrder marks an order as delivered. Admin gating happens at the
// route level.
func (s *OrderService) DeliverOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.IsDelivered {
		return order, nil
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	if err := s.orderRepo.Save(order); err != nil {
		return nil, fmt.Errorf("failed to mark order %s delivered: %w", id, err)
	}

	s.publish(rabbitmq.OrderDelivered, order)
	return order, nil
}

// publish sends an order lifecycle event. Event delivery is best-effort:
// a broker failure is logged, not surfaced to the caller.
func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	event := rabbitmq.OrderEvent{
		Type:    eventType,
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.TotalPrice,
	}
	if err := s.mqClient.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}
