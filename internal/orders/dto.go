package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SafinArnob/E-Shop-Management-System/internal/cart"
	"github.com/SafinArnob/E-Shop-Management-System/internal/discounts"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// CreateOrderRequest converts the caller's cart into an order. The
// optional total_amount is advisory only: the pipeline always recomputes
// totals server-side and never persists a client-supplied figure.
type CreateOrderRequest struct {
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	BillingAddress  *string          `json:"billing_address,omitempty"`
	PaymentMethod   string           `json:"payment_method" validate:"required,oneof=cash_on_delivery card bank_transfer"`
	Notes           *string          `json:"notes,omitempty"`
	DiscountCode    *string          `json:"discount_code,omitempty"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"`
}

// UpdateStatusRequest moves an order through the fulfillment state machine.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePaymentStatusRequest records a payment state change.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// OrderItemDTO is one immutable line of a placed order.
type OrderItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductBrand    string          `json:"product_brand"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// OrderDTO is the customer-facing projection of a placed order.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	OrderNumber     string              `json:"order_number"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	TotalItems      int                 `json:"total_items"`
	OriginalAmount  decimal.Decimal     `json:"original_amount"`
	DiscountCode    *string             `json:"discount_code,omitempty"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	BillingAddress  *string             `json:"billing_address,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	Items           []OrderItemDTO      `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListDTO wraps a page of a customer's orders.
type OrderListDTO struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// CreateOrderResult is the success payload of the checkout pipeline.
type CreateOrderResult struct {
	Order           *OrderDTO         `json:"order"`
	OrderNumber     string            `json:"order_number"`
	DiscountApplied *discounts.Result `json:"discount_applied,omitempty"`
}

// PreviewDTO prices the current cart without creating anything.
type PreviewDTO struct {
	Cart           *cart.CartDTO     `json:"cart"`
	OriginalAmount decimal.Decimal   `json:"original_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	Discount       *discounts.Result `json:"discount,omitempty"`
}

// StatsDTO is the admin roll-up of order volume and revenue.
type StatsDTO struct {
	TotalOrders     int64            `json:"total_orders"`
	TotalRevenue    decimal.Decimal  `json:"total_revenue"`
	TotalDiscounted decimal.Decimal  `json:"total_discounted"`
	ByStatus        map[string]int64 `json:"by_status"`
}

// FromModel maps a persistence model, items included, onto the DTO.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PaymentMethod:   o.PaymentMethod,
		TotalItems:      o.TotalItems,
		OriginalAmount:  o.OriginalAmount,
		DiscountCode:    o.DiscountCode,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Notes:           o.Notes,
		Items:           make([]OrderItemDTO, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for i := range o.Items {
		item := &o.Items[i]
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductBrand:    item.ProductBrand,
			ProductCategory: item.ProductCategory,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			TotalPrice:      item.TotalPrice,
		})
	}
	return dto
}
