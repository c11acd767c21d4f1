package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
)

// ProductDTO is the public projection of a catalog entry.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductRequest carries the payload for adding a catalog entry.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Brand       string          `json:"brand" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// UpdateProductRequest carries partial updates for a catalog entry.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// ListFilters narrows a catalog listing.
type ListFilters struct {
	Category string
	Brand    string
	Search   string
	Limit    int
	Offset   int
}

// ProductListDTO wraps a page of catalog entries.
type ProductListDTO struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

// FromModel maps a persistence model onto the public DTO.
func FromModel(p *models.Product) ProductDTO {
	if p == nil {
		return ProductDTO{}
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Brand:       p.Brand,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
