package repositories

import (
	"productkart/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	Create(order *models.Order) error
	// Save persists mutations to an existing order (pay/deliver flags).
	// The item snapshot is never rewritten through Save.
	Save(order *models.Order) error
}
