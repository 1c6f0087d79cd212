package repositories

import (
	"productkart/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// DecrementStock reduces a product's stock by qty, failing if the
	// remaining stock would go negative.
	DecrementStock(id string, qty int) error
	// RestoreStock returns qty units to a product's stock, undoing a
	// decrement when the surrounding order fails.
	RestoreStock(id string, qty int) error
}
