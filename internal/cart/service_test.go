package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	pkgerrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
)

type stubCartRepo struct {
	carts          map[uuid.UUID]*models.Cart
	items          map[uuid.UUID][]*models.CartItem
	quantityWrites []int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID][]*models.CartItem{},
	}
}

func (s *stubCartRepo) FindOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	cartRow, ok := s.carts[customerID]
	if !ok {
		cartRow = &models.Cart{ID: uuid.New(), CustomerID: customerID}
		s.carts[customerID] = cartRow
	}
	loaded := *cartRow
	loaded.Items = nil
	for _, item := range s.items[cartRow.ID] {
		loaded.Items = append(loaded.Items, *item)
	}
	return &loaded, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items[cartID] {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.CartID] = append(s.items[item.CartID], item)
	return nil
}

func (s *stubCartRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	s.quantityWrites = append(s.quantityWrites, quantity)
	for _, rows := range s.items {
		for _, item := range rows {
			if item.ID == itemID {
				item.Quantity = quantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	rows := s.items[cartID]
	for i, item := range rows {
		if item.ProductID == productID {
			s.items[cartID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartRepo) ClearByCart(ctx context.Context, cartID uuid.UUID) error {
	s.items[cartID] = nil
	return nil
}

func buildCartService(t *testing.T, repo *stubCartRepo, catalog *stubCatalog) Service {
	t.Helper()
	svc, err := NewService(repo, catalog)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceAddItemSnapshotsProduct(t *testing.T) {
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Trail Pack 30L",
		Brand:    "Northbound",
		Category: "backpacks",
		Price:    decimal.RequireFromString("89.99"),
	}
	svc := buildCartService(t, newStubCartRepo(), newStubCatalog(product))
	customerID := uuid.New()

	dto, err := svc.AddItem(context.Background(), customerID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(dto.Items))
	}
	line := dto.Items[0]
	if line.ProductName != product.Name || line.ProductBrand != product.Brand || line.ProductCategory != product.Category {
		t.Fatalf("expected product snapshot, got %+v", line)
	}
	if !line.Price.Equal(product.Price) {
		t.Fatalf("expected snapshot price %s, got %s", product.Price, line.Price)
	}
	if dto.TotalItems != 2 || !dto.TotalAmount.Equal(decimal.RequireFromString("179.98")) {
		t.Fatalf("unexpected totals items=%d amount=%s", dto.TotalItems, dto.TotalAmount)
	}
}

func TestServiceAddItemMergesExistingLine(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "River Sandals", Brand: "Driftline", Category: "footwear", Price: decimal.RequireFromString("39.50")}
	svc := buildCartService(t, newStubCartRepo(), newStubCatalog(product))
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, AddItemRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	dto, err := svc.AddItem(context.Background(), customerID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(dto.Items))
	}
	if dto.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", dto.Items[0].Quantity)
	}
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	svc := buildCartService(t, newStubCartRepo(), newStubCatalog())

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateAndRemoveItem(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Summit Tent 2P", Brand: "Northbound", Category: "tents", Price: decimal.RequireFromString("249.00")}
	svc := buildCartService(t, newStubCartRepo(), newStubCatalog(product))
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, AddItemRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	dto, err := svc.UpdateItem(context.Background(), customerID, product.ID, UpdateItemRequest{Quantity: 4})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.TotalItems != 4 {
		t.Fatalf("expected 4 items, got %d", dto.TotalItems)
	}

	dto, err = svc.RemoveItem(context.Background(), customerID, product.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(dto.Items))
	}

	_, err = svc.RemoveItem(context.Background(), customerID, product.ID)
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on missing line, got %v", err)
	}
}

func TestServiceUpdateItemToZeroRemovesLine(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Camp Mug", Brand: "Driftline", Category: "kitchen", Price: decimal.RequireFromString("14.00")}
	repo := newStubCartRepo()
	svc := buildCartService(t, repo, newStubCatalog(product))
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, AddItemRequest{ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	dto, err := svc.UpdateItem(context.Background(), customerID, product.ID, UpdateItemRequest{Quantity: 0})
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected line removed, got %d lines", len(dto.Items))
	}
	for _, qty := range repo.quantityWrites {
		if qty <= 0 {
			t.Fatalf("quantity %d was persisted instead of removing the line", qty)
		}
	}
}

func TestServiceValidateReportsDriftWithoutMutating(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Trail Pack 30L", Brand: "Northbound", Category: "backpacks", Price: decimal.RequireFromString("89.99")}
	repo := newStubCartRepo()
	catalog := newStubCatalog(product)
	svc := buildCartService(t, repo, catalog)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, AddItemRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Catalog price moves after the snapshot was taken.
	product.Price = decimal.RequireFromString("99.99")

	result, err := svc.Validate(context.Background(), customerID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid || result.Empty {
		t.Fatalf("expected drifted cart to be invalid, got %+v", result)
	}
	if len(result.Changes) != 1 || result.Changes[0].Issue != IssuePriceChanged {
		t.Fatalf("expected one price change, got %+v", result.Changes)
	}

	dto, err := svc.Get(context.Background(), customerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !dto.Items[0].Price.Equal(decimal.RequireFromString("89.99")) {
		t.Fatalf("validation mutated the snapshot price to %s", dto.Items[0].Price)
	}

	empty, err := svc.Validate(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("validate empty: %v", err)
	}
	if !empty.Valid || !empty.Empty || len(empty.Changes) != 0 {
		t.Fatalf("expected empty cart to validate clean, got %+v", empty)
	}
}

func TestServiceClear(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "p", Brand: "b", Category: "c", Price: decimal.New(10, 0)}
	repo := newStubCartRepo()
	svc := buildCartService(t, repo, newStubCatalog(product))
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, AddItemRequest{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(context.Background(), customerID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	dto, err := svc.Get(context.Background(), customerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(dto.Items) != 0 || !dto.TotalAmount.IsZero() {
		t.Fatalf("expected empty cart, got %+v", dto)
	}
}
