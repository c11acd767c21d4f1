package discounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
	apperrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
)

// Rejection reasons surfaced to merchants. These are business outcomes,
// not errors: the engine returns them in the Result rather than failing.
const (
	ReasonInvalidCode          = "invalid_code"
	ReasonBelowMinimumAmount   = "below_minimum_amount"
	ReasonBelowMinimumQuantity = "below_minimum_quantity"
	ReasonNoEligibleItems      = "no_eligible_items"
)

var oneHundred = decimal.NewFromInt(100)

// PricedItem is the minimal line shape the engine prices against.
type PricedItem struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
}

// DiscountInfo echoes the matched discount back to the caller.
type DiscountInfo struct {
	ID              uuid.UUID             `json:"id"`
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	Description     *string               `json:"description,omitempty"`
	DiscountType    enums.DiscountType    `json:"discount_type"`
	CalculationType enums.CalculationType `json:"calculation_type"`
	Value           decimal.Decimal       `json:"value"`
}

// Result is the full pricing outcome for one code against one set of
// items. On rejection Success is false and Reason/Message explain why;
// the totals are only meaningful when Success is true.
type Result struct {
	Success           bool            `json:"success"`
	Reason            string          `json:"reason,omitempty"`
	Message           string          `json:"message,omitempty"`
	OriginalTotal     decimal.Decimal `json:"original_total"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	FinalTotal        decimal.Decimal `json:"final_total"`
	SavingsPercentage decimal.Decimal `json:"savings_percentage"`
	Discount          *DiscountInfo   `json:"discount,omitempty"`
}

func rejected(reason, message string) *Result {
	return &Result{Success: false, Reason: reason, Message: message}
}

type discountRegistry interface {
	GetActiveByCode(ctx context.Context, code string, at time.Time) (*models.Discount, error)
}

// Engine computes discount eligibility and discounted totals. Apart from
// the registry lookup it is pure over its inputs, so previews are free to
// call it concurrently and retries are safe.
type Engine struct {
	registry discountRegistry
	now      func() time.Time
}

func NewEngine(registry discountRegistry, now func() time.Time) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("discounts: registry is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{registry: registry, now: now}, nil
}

// Apply prices the given items under the named code.
//
// The original total always spans every item. The discount base depends on
// the discount type: global and bundle discount the whole cart, individual
// discounts only the eligible subtotal while ineligible items are charged
// in full. Percentage discounts are clamped to the base even if a value
// over 100 slipped past creation-time validation, and flat discounts never
// exceed the base, so the final total can never go negative.
func (e *Engine) Apply(ctx context.Context, code string, items []PricedItem) (*Result, error) {
	discount, err := e.registry.GetActiveByCode(ctx, code, e.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rejected(ReasonInvalidCode, "discount code is invalid or expired"), nil
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to look up discount code")
	}

	originalTotal := decimal.Zero
	totalQuantity := 0
	for _, item := range items {
		originalTotal = originalTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		totalQuantity += item.Quantity
	}

	if discount.MinimumOrderAmount != nil && originalTotal.LessThan(*discount.MinimumOrderAmount) {
		return rejected(ReasonBelowMinimumAmount,
			fmt.Sprintf("order total must be at least %s", discount.MinimumOrderAmount.StringFixed(2))), nil
	}
	if discount.MinimumQuantity != nil && totalQuantity < *discount.MinimumQuantity {
		return rejected(ReasonBelowMinimumQuantity,
			fmt.Sprintf("order must contain at least %d items", *discount.MinimumQuantity)), nil
	}

	base := originalTotal
	if discount.DiscountType == enums.DiscountTypeIndividual {
		base = decimal.Zero
		eligibleItems := 0
		for _, item := range items {
			if discount.EligibleProductIDs.Contains(item.ProductID) {
				base = base.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
				eligibleItems++
			}
		}
		if eligibleItems == 0 {
			return rejected(ReasonNoEligibleItems, "no items in the cart qualify for this discount"), nil
		}
	}

	var discountAmount decimal.Decimal
	switch discount.CalculationType {
	case enums.CalculationTypePercentage:
		discountAmount = base.Mul(discount.Value).Div(oneHundred).Round(2)
		if discountAmount.GreaterThan(base) {
			discountAmount = base
		}
	case enums.CalculationTypeFlat:
		discountAmount = decimal.Min(discount.Value, base)
	default:
		return nil, apperrors.New(apperrors.CodeInternal,
			fmt.Sprintf("unknown calculation type %q", discount.CalculationType))
	}

	finalTotal := originalTotal.Sub(discountAmount)
	if finalTotal.IsNegative() {
		finalTotal = decimal.Zero
	}

	savings := decimal.Zero
	if discountAmount.IsPositive() && originalTotal.IsPositive() {
		savings = discountAmount.Div(originalTotal).Mul(oneHundred).Round(2)
	}

	return &Result{
		Success:           true,
		OriginalTotal:     originalTotal,
		DiscountAmount:    discountAmount,
		FinalTotal:        finalTotal,
		SavingsPercentage: savings,
		Discount: &DiscountInfo{
			ID:              discount.ID,
			Code:            discount.Code,
			Name:            discount.Name,
			Description:     discount.Description,
			DiscountType:    discount.DiscountType,
			CalculationType: discount.CalculationType,
			Value:           discount.Value,
		},
	}, nil
}
