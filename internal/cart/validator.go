package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	apperrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
)

// Drift issues a cart line can accumulate between add-to-cart and checkout.
const (
	IssuePriceChanged      = "price_changed"
	IssueNoLongerAvailable = "no_longer_available"

	ActionUpdate = "update"
	ActionRemove = "remove"
)

// Change describes one cart line whose snapshot no longer matches the
// catalog. Old/New prices are set only for price drift.
type Change struct {
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name"`
	Issue       string           `json:"issue"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice    *decimal.Decimal `json:"new_price,omitempty"`
	Action      string           `json:"action"`
}

// ValidationResult reports whether a cart can be checked out as-is.
type ValidationResult struct {
	Valid   bool
	Empty   bool
	Changes []Change
	Cart    *models.Cart
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Validator reconciles snapshot prices and product existence against
// catalog truth. It never mutates the cart; callers decide whether to
// block checkout or re-sync.
type Validator struct {
	catalog productCatalog
}

func NewValidator(catalog productCatalog) (*Validator, error) {
	if catalog == nil {
		return nil, fmt.Errorf("cart: product catalog is required")
	}
	return &Validator{catalog: catalog}, nil
}

// Validate checks every line item against the current catalog. An empty or
// missing cart is valid by definition. Items are checked in insertion order
// and every drift is reported, not just the first.
func (v *Validator) Validate(ctx context.Context, cart *models.Cart) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true, Cart: cart}
	if cart == nil || len(cart.Items) == 0 {
		result.Empty = true
		return result, nil
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := v.catalog.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Valid = false
				result.Changes = append(result.Changes, Change{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Issue:       IssueNoLongerAvailable,
					Action:      ActionRemove,
				})
				continue
			}
			return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load product for cart validation")
		}
		if !product.Price.Equal(item.Price) {
			oldPrice := item.Price
			newPrice := product.Price
			result.Valid = false
			result.Changes = append(result.Changes, Change{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Issue:       IssuePriceChanged,
				OldPrice:    &oldPrice,
				NewPrice:    &newPrice,
				Action:      ActionUpdate,
			})
		}
	}
	return result, nil
}
