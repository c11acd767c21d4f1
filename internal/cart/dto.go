package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
)

// CartItemDTO is a cart line with its add-time product snapshot.
type CartItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductBrand    string          `json:"product_brand"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// CartDTO is the customer-facing cart projection. Totals are derived from
// the line items on every read, never stored.
type CartDTO struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Items       []CartItemDTO   `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AddItemRequest adds a product to the caller's cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest replaces the quantity of an existing cart line. Zero
// or a negative quantity removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// ValidationDTO is the client-facing drift report for a cart. The cart
// echoed back still carries its snapshot prices.
type ValidationDTO struct {
	Valid   bool     `json:"valid"`
	Empty   bool     `json:"empty"`
	Changes []Change `json:"changes"`
	Cart    *CartDTO `json:"cart"`
}

// FromModel derives the DTO, including totals, from a loaded cart.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	dto := &CartDTO{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		Items:       make([]CartItemDTO, 0, len(c.Items)),
		TotalAmount: decimal.Zero,
		UpdatedAt:   c.UpdatedAt,
	}
	for i := range c.Items {
		item := &c.Items[i]
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		dto.Items = append(dto.Items, CartItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductBrand:    item.ProductBrand,
			ProductCategory: item.ProductCategory,
			Quantity:        item.Quantity,
			Price:           item.Price,
			LineTotal:       lineTotal,
		})
		dto.TotalItems += item.Quantity
		dto.TotalAmount = dto.TotalAmount.Add(lineTotal)
	}
	return dto
}
