package models

import "gorm.io/gorm"

// Product represents a catalog product.
type Product struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID       string  `json:"user,omitempty" gorm:"type:varchar(36)"` // admin who created the product
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand" validate:"omitempty,max=100"`
	Category     string  `json:"category" validate:"omitempty,max=100"`
	Description  string  `json:"description" validate:"omitempty,max=1000"`
	Price        float64 `json:"price" validate:"gte=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	NumReviews   int     `json:"numReviews" validate:"gte=0"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
