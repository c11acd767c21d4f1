package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// DiscountDTO is the admin-facing projection of a discount definition.
type DiscountDTO struct {
	ID                 uuid.UUID             `json:"id"`
	Code               string                `json:"code"`
	Name               string                `json:"name"`
	Description        *string               `json:"description,omitempty"`
	DiscountType       enums.DiscountType    `json:"discount_type"`
	CalculationType    enums.CalculationType `json:"calculation_type"`
	Value              decimal.Decimal       `json:"value"`
	MinimumOrderAmount *decimal.Decimal      `json:"minimum_order_amount,omitempty"`
	MinimumQuantity    *int                  `json:"minimum_quantity,omitempty"`
	StartDate          *time.Time            `json:"start_date,omitempty"`
	EndDate            *time.Time            `json:"end_date,omitempty"`
	IsActive           bool                  `json:"is_active"`
	EligibleProductIDs []uuid.UUID           `json:"eligible_product_ids"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// CreateDiscountRequest defines a new discount code.
type CreateDiscountRequest struct {
	Code               string           `json:"code" validate:"required"`
	Name               string           `json:"name" validate:"required"`
	Description        *string          `json:"description,omitempty"`
	DiscountType       string           `json:"discount_type" validate:"required,oneof=global individual bundle"`
	CalculationType    string           `json:"calculation_type" validate:"required,oneof=percentage flat"`
	Value              decimal.Decimal  `json:"value" validate:"required"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount,omitempty"`
	MinimumQuantity    *int             `json:"minimum_quantity,omitempty"`
	StartDate          *time.Time       `json:"start_date,omitempty"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
	EligibleProductIDs []uuid.UUID      `json:"eligible_product_ids,omitempty"`
}

// UpdateDiscountRequest carries partial updates for a discount definition.
type UpdateDiscountRequest struct {
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	Value              *decimal.Decimal `json:"value,omitempty"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount,omitempty"`
	MinimumQuantity    *int             `json:"minimum_quantity,omitempty"`
	StartDate          *time.Time       `json:"start_date,omitempty"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
	EligibleProductIDs []uuid.UUID      `json:"eligible_product_ids,omitempty"`
}

// ApplyCodeRequest previews a code against a set of cart lines. The preview
// never mutates state; prices are echoed from the caller's cart view and
// recomputed authoritatively again at order creation.
type ApplyCodeRequest struct {
	DiscountCode string       `json:"discount_code" validate:"required"`
	CartItems    []PricedItem `json:"cart_items" validate:"required,min=1,dive"`
}

// DiscountListDTO wraps a page of discount definitions.
type DiscountListDTO struct {
	Discounts []DiscountDTO `json:"discounts"`
	Total     int64         `json:"total"`
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
}

// StatsDTO aggregates discount definition counts and recorded redemptions.
type StatsDTO struct {
	TotalDiscounts   int64 `json:"total_discounts"`
	ActiveDiscounts  int64 `json:"active_discounts"`
	TotalRedemptions int64 `json:"total_redemptions"`
}

// CodeValidationDTO reports whether a code is currently redeemable. The
// discount is echoed only for valid codes, so storefronts can show its
// terms before the customer builds a cart.
type CodeValidationDTO struct {
	Code     string       `json:"code"`
	Valid    bool         `json:"valid"`
	Discount *DiscountDTO `json:"discount,omitempty"`
}

// FromModel maps a persistence model onto the admin DTO.
func FromModel(d *models.Discount) DiscountDTO {
	if d == nil {
		return DiscountDTO{}
	}
	return DiscountDTO{
		ID:                 d.ID,
		Code:               d.Code,
		Name:               d.Name,
		Description:        d.Description,
		DiscountType:       d.DiscountType,
		CalculationType:    d.CalculationType,
		Value:              d.Value,
		MinimumOrderAmount: d.MinimumOrderAmount,
		MinimumQuantity:    d.MinimumQuantity,
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		IsActive:           d.IsActive,
		EligibleProductIDs: []uuid.UUID(d.EligibleProductIDs),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}
