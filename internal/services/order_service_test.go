package services_test

import (
	"fmt"
	"testing"

	"productkart/internal/models"
	"productkart/internal/pricing"
	"productkart/internal/repositories"
	"productkart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func orderRequest(price float64, qty int) *models.Order {
	quote := pricing.QuoteLines([]pricing.Line{{Price: price, Qty: qty}})
	return &models.Order{
		Items: []models.OrderItem{
			{ProductID: "prod-1", Qty: qty},
		},
		ShippingAddress: models.ShippingAddress{
			Address:    "1 Main St",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "USA",
		},
		PaymentMethod: "PayPal",
		ItemsPrice:    quote.ItemsPrice,
		ShippingPrice: quote.ShippingPrice,
		TaxPrice:      quote.TaxPrice,
		TotalPrice:    quote.TotalPrice,
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	product := &models.Product{ID: "prod-1", Name: "Airpods", Image: "/images/airpods.jpg", Price: 75.0, CountInStock: 10}
	req := orderRequest(75.0, 2)

	mockProductRepo.On("GetByID", "prod-1").Return(product, nil).Once()
	mockProductRepo.On("DecrementStock", "prod-1", 2).Return(nil).Once()
	mockOrderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.PlaceOrder("user-1", req)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", order.UserID)
	assert.Len(t, order.Items, 1)

	// Line items are snapshotted from the product record, not the request
	line := order.Items[0]
	assert.Equal(t, "Airpods", line.Name)
	assert.Equal(t, "/images/airpods.jpg", line.Image)
	assert.Equal(t, 75.0, line.Price)
	assert.Equal(t, 2, line.Qty)

	// 150 items → free shipping, 22.50 tax, 172.50 total
	assert.Equal(t, 150.0, order.ItemsPrice)
	assert.Equal(t, 0.0, order.ShippingPrice)
	assert.Equal(t, 22.5, order.TaxPrice)
	assert.Equal(t, 172.5, order.TotalPrice)

	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestOrderService_PlaceOrderEmpty(t *testing.T) {
	service := services.NewOrderService(new(MockOrderRepository), new(MockProductRepository), nil)

	_, err := service.PlaceOrder("user-1", &models.Order{})
	assert.ErrorIs(t, err, services.ErrEmptyOrder)
}

func TestOrderService_PlaceOrderPriceMismatch(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	product := &models.Product{ID: "prod-1", Name: "Airpods", Price: 75.0, CountInStock: 10}
	req := orderRequest(75.0, 2)
	req.TotalPrice = 9.99 // tampered client total

	mockProductRepo.On("GetByID", "prod-1").Return(product, nil).Once()

	_, err := service.PlaceOrder("user-1", req)
	assert.ErrorIs(t, err, services.ErrPriceMismatch)
	mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockProductRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrderInsufficientStock(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	product := &models.Product{ID: "prod-1", Name: "Airpods", Price: 75.0, CountInStock: 1}
	req := orderRequest(75.0, 2)

	mockProductRepo.On("GetByID", "prod-1").Return(product, nil).Once()

	_, err := service.PlaceOrder("user-1", req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
	mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_DuplicateLinesExceedingStockRestoreIt(t *testing.T) {
	// Duplicate product lines are valid API input: each line passes the
	// snapshot check on its own, but their combined quantity exceeds
	// stock, so the second decrement fails mid-order.
	productRepo := repositories.NewMockProductRepository()
	product := &models.Product{ID: "prod-1", Name: "Airpods", Price: 75.0, CountInStock: 3}
	require.NoError(t, productRepo.Create(product))

	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, productRepo, nil)

	quote := pricing.QuoteLines([]pricing.Line{
		{Price: 75.0, Qty: 2},
		{Price: 75.0, Qty: 2},
	})
	req := &models.Order{
		Items: []models.OrderItem{
			{ProductID: "prod-1", Qty: 2},
			{ProductID: "prod-1", Qty: 2},
		},
		PaymentMethod: "PayPal",
		ItemsPrice:    quote.ItemsPrice,
		ShippingPrice: quote.ShippingPrice,
		TaxPrice:      quote.TaxPrice,
		TotalPrice:    quote.TotalPrice,
	}

	_, err := service.PlaceOrder("user-1", req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
	mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything)

	got, err := productRepo.GetByID("prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.CountInStock, "a rejected order must not leak stock")
}

func TestOrderService_CreateFailureRestoresStock(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	product := &models.Product{ID: "prod-1", Name: "Airpods", Price: 75.0, CountInStock: 10}
	require.NoError(t, productRepo.Create(product))

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(fmt.Errorf("database error")).Once()
	service := services.NewOrderService(mockOrderRepo, productRepo, nil)

	_, err := service.PlaceOrder("user-1", orderRequest(75.0, 2))
	assert.Error(t, err)
	mockOrderRepo.AssertExpectations(t)

	got, err := productRepo.GetByID("prod-1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.CountInStock)
}

func TestOrderService_GetOrderOwnership(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	order := &models.Order{ID: "order-1", UserID: "user-1"}

	// Owner can read
	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	got, err := service.GetOrder("order-1", "user-1", false)
	assert.NoError(t, err)
	assert.Equal(t, order, got)

	// A stranger cannot
	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	_, err = service.GetOrder("order-1", "user-2", false)
	assert.ErrorIs(t, err, services.ErrNotOrderOwner)

	// An admin can read anyone's order
	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	_, err = service.GetOrder("order-1", "admin-1", true)
	assert.NoError(t, err)

	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_PayOrder(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	order := &models.Order{ID: "order-1", UserID: "user-1", TotalPrice: 172.5}

	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	mockOrderRepo.On("Save", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	paid, err := service.PayOrder("order-1", "user-1", false)
	assert.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.NotNil(t, paid.PaidAt)
	mockOrderRepo.AssertExpectations(t)

	// Paying again is a no-op: no second Save
	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	again, err := service.PayOrder("order-1", "user-1", false)
	assert.NoError(t, err)
	assert.True(t, again.IsPaid)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_PayOrderNotOwner(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	order := &models.Order{ID: "order-1", UserID: "user-1"}
	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()

	_, err := service.PayOrder("order-1", "user-2", false)
	assert.ErrorIs(t, err, services.ErrNotOrderOwner)
	mockOrderRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestOrderService_DeliverOrder(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	order := &models.Order{ID: "order-1", UserID: "user-1"}

	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	mockOrderRepo.On("Save", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	delivered, err := service.DeliverOrder("order-1")
	assert.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	assert.NotNil(t, delivered.DeliveredAt)
	mockOrderRepo.AssertExpectations(t)

	// Delivering again is a no-op: no second Save
	mockOrderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	_, err = service.DeliverOrder("order-1")
	assert.NoError(t, err)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_ListMyOrders(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	expected := []models.Order{{ID: "order-1", UserID: "user-1"}}
	mockOrderRepo.On("GetByUserID", "user-1").Return(expected, nil).Once()

	orders, err := service.ListMyOrders("user-1")
	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	mockOrderRepo.AssertExpectations(t)

	mockOrderRepo.On("GetByUserID", "user-2").Return([]models.Order{}, fmt.Errorf("database error")).Once()
	_, err = service.ListMyOrders("user-2")
	assert.Error(t, err)
	mockOrderRepo.AssertExpectations(t)
}
