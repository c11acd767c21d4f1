package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	apperrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
)

// Service manages the caller's working cart. Every operation is keyed by
// the authenticated customer id, never by a client-supplied cart id.
type Service interface {
	Get(ctx context.Context, customerID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, customerID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, customerID, productID uuid.UUID, req UpdateItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	Validate(ctx context.Context, customerID uuid.UUID) (*ValidationDTO, error)
}

type cartRepository interface {
	FindOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	ClearByCart(ctx context.Context, cartID uuid.UUID) error
}

type service struct {
	repo      cartRepository
	catalog   productCatalog
	validator *Validator
}

// NewService wires the cart service with its repository and the catalog
// used for add-time price snapshots and drift checks.
func NewService(repo cartRepository, catalog productCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart: repository is required")
	}
	validator, err := NewValidator(catalog)
	if err != nil {
		return nil, err
	}
	return &service{repo: repo, catalog: catalog, validator: validator}, nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}
	return FromModel(cart), nil
}

// AddItem snapshots the product's current name, brand, category and price
// into a new line, or bumps the quantity when the product is already in
// the cart. The snapshot price is deliberately never refreshed here.
func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	product, err := s.catalog.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load product")
	}

	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}

	existing, err := s.repo.FindItem(ctx, cart.ID, req.ProductID)
	switch {
	case err == nil:
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+req.Quantity); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			CartID:          cart.ID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductBrand:    product.Brand,
			ProductCategory: product.Category,
			Quantity:        req.Quantity,
			Price:           product.Price,
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to add cart item")
		}
	default:
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to look up cart item")
	}

	return s.Get(ctx, customerID)
}

// UpdateItem sets the line's quantity. A quantity of zero or less removes
// the line outright instead of persisting an empty row.
func (s *service) UpdateItem(ctx context.Context, customerID, productID uuid.UUID, req UpdateItemRequest) (*CartDTO, error) {
	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item is not in the cart")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to look up cart item")
	}

	if req.Quantity <= 0 {
		if err := s.repo.RemoveItem(ctx, cart.ID, productID); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to remove cart item")
		}
		return s.Get(ctx, customerID)
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, req.Quantity); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update cart item")
	}
	return s.Get(ctx, customerID)
}

func (s *service) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}

	if err := s.repo.RemoveItem(ctx, cart.ID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item is not in the cart")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to remove cart item")
	}
	return s.Get(ctx, customerID)
}

// Validate reconciles the caller's cart against current catalog truth and
// reports the drift. The stored cart is left untouched; the client decides
// whether to apply the suggested changes.
func (s *service) Validate(ctx context.Context, customerID uuid.UUID) (*ValidationDTO, error) {
	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}
	result, err := s.validator.Validate(ctx, cart)
	if err != nil {
		return nil, err
	}
	dto := &ValidationDTO{
		Valid:   result.Valid,
		Empty:   result.Empty,
		Changes: result.Changes,
		Cart:    FromModel(result.Cart),
	}
	if dto.Changes == nil {
		dto.Changes = []Change{}
	}
	return dto, nil
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}
	if err := s.repo.ClearByCart(ctx, cart.ID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to clear cart")
	}
	return nil
}
