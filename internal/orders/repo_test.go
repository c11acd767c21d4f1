package orders

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// Tables are created by hand here because the uuid defaults in the model
// tags are Postgres-only syntax.
const testOrdersSchema = `
CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	order_number TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL DEFAULT 'pending',
	payment_status TEXT NOT NULL DEFAULT 'pending',
	payment_method TEXT NOT NULL,
	total_items INTEGER NOT NULL,
	original_amount NUMERIC NOT NULL,
	discount_code TEXT,
	discount_amount NUMERIC NOT NULL DEFAULT 0,
	total_amount NUMERIC NOT NULL,
	shipping_address TEXT NOT NULL,
	billing_address TEXT,
	notes TEXT,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE order_items (
	id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	product_name TEXT NOT NULL,
	product_brand TEXT NOT NULL,
	product_category TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price NUMERIC NOT NULL,
	total_price NUMERIC NOT NULL,
	created_at DATETIME
);
CREATE TABLE order_discounts (
	order_id TEXT NOT NULL,
	discount_id TEXT NOT NULL,
	created_at DATETIME,
	PRIMARY KEY (order_id, discount_id)
);`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range strings.Split(testOrdersSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedOrder(t *testing.T, repo *Repository, customerID uuid.UUID, number, total string) *models.Order {
	t.Helper()
	created, err := repo.Create(context.Background(), &models.Order{
		CustomerID:      customerID,
		OrderNumber:     number,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodCard,
		TotalItems:      1,
		OriginalAmount:  money(total),
		DiscountAmount:  money("0"),
		TotalAmount:     money(total),
		ShippingAddress: "12 Harbor Lane, Dhaka",
		Items: []models.OrderItem{
			{
				ProductID:       uuid.New(),
				ProductName:     "Pack",
				ProductBrand:    "Northbound",
				ProductCategory: "backpacks",
				Quantity:        1,
				UnitPrice:       money(total),
				TotalPrice:      money(total),
			},
		},
	})
	if err != nil {
		t.Fatalf("seed order %s: %v", number, err)
	}
	return created
}

func TestRepositoryCreatePersistsItems(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	customerID := uuid.New()

	created := seedOrder(t, repo, customerID, "ORD-000001-ABCDEF", "25.00")

	found, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found.Items) != 1 {
		t.Fatalf("expected items preloaded, got %d", len(found.Items))
	}
	if found.Items[0].OrderID != created.ID {
		t.Fatal("expected item bound to order")
	}
	if !found.TotalAmount.Equal(money("25.00")) {
		t.Fatalf("unexpected total %s", found.TotalAmount)
	}

	byNumber, err := repo.FindByNumber(context.Background(), "ORD-000001-ABCDEF")
	if err != nil {
		t.Fatalf("find by number: %v", err)
	}
	if byNumber.ID != created.ID {
		t.Fatal("expected same order by number")
	}
}

func TestRepositoryOrderNumberUnique(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	customerID := uuid.New()

	seedOrder(t, repo, customerID, "ORD-000002-AAAAAA", "10.00")
	_, err := repo.Create(context.Background(), &models.Order{
		CustomerID:      customerID,
		OrderNumber:     "ORD-000002-AAAAAA",
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodCard,
		TotalItems:      1,
		OriginalAmount:  money("10.00"),
		TotalAmount:     money("10.00"),
		ShippingAddress: "somewhere",
	})
	if err == nil {
		t.Fatal("expected unique violation on duplicate order number")
	}
}

func TestRepositoryListByCustomer(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	customerID := uuid.New()

	seedOrder(t, repo, customerID, "ORD-000003-AAAAAA", "10.00")
	seedOrder(t, repo, customerID, "ORD-000004-BBBBBB", "20.00")
	seedOrder(t, repo, uuid.New(), "ORD-000005-CCCCCC", "30.00")

	rows, total, err := repo.ListByCustomer(context.Background(), customerID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 orders for the customer, got total=%d rows=%d", total, len(rows))
	}
	for _, row := range rows {
		if len(row.Items) != 1 {
			t.Fatalf("expected items preloaded on %s", row.OrderNumber)
		}
	}

	rows, total, err = repo.ListByCustomer(context.Background(), customerID, 1, 1)
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if total != 2 || len(rows) != 1 {
		t.Fatalf("expected page of 1 out of 2, got total=%d rows=%d", total, len(rows))
	}
}

func TestRepositoryListAll(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	seedOrder(t, repo, uuid.New(), "ORD-000010-AAAAAA", "10.00")
	seedOrder(t, repo, uuid.New(), "ORD-000011-BBBBBB", "20.00")
	seedOrder(t, repo, uuid.New(), "ORD-000012-CCCCCC", "30.00")

	rows, total, err := repo.ListAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("expected every order, got total=%d rows=%d", total, len(rows))
	}
	for _, row := range rows {
		if len(row.Items) != 1 {
			t.Fatalf("expected items preloaded on %s", row.OrderNumber)
		}
	}

	rows, total, err = repo.ListAll(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if total != 3 || len(rows) != 1 {
		t.Fatalf("expected last page of 1 out of 3, got total=%d rows=%d", total, len(rows))
	}
}

func TestRepositoryStatusUpdates(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	created := seedOrder(t, repo, uuid.New(), "ORD-000006-DDDDDD", "15.00")

	if err := repo.UpdateStatus(context.Background(), created.ID, enums.OrderStatusConfirmed); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := repo.UpdatePaymentStatus(context.Background(), created.ID, enums.PaymentStatusPaid); err != nil {
		t.Fatalf("update payment status: %v", err)
	}

	found, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if found.Status != enums.OrderStatusConfirmed || found.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("unexpected statuses %s/%s", found.Status, found.PaymentStatus)
	}
}

func TestRepositoryLinkDiscountIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	created := seedOrder(t, repo, uuid.New(), "ORD-000007-EEEEEE", "15.00")
	discountID := uuid.New()

	if err := repo.LinkDiscount(context.Background(), created.ID, discountID); err != nil {
		t.Fatalf("first link: %v", err)
	}
	if err := repo.LinkDiscount(context.Background(), created.ID, discountID); err != nil {
		t.Fatalf("second link: %v", err)
	}

	var count int64
	if err := db.Model(&models.OrderDiscount{}).Count(&count).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one link row, got %d", count)
	}
}

func TestRepositoryFindMissing(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestRepositoryStats(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	customerID := uuid.New()

	seedOrder(t, repo, customerID, "ORD-000008-FFFFFF", "10.00")
	second := seedOrder(t, repo, customerID, "ORD-000009-GGGGGG", "20.00")
	if err := repo.UpdateStatus(context.Background(), second.ID, enums.OrderStatusConfirmed); err != nil {
		t.Fatalf("update status: %v", err)
	}

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalOrders != 2 {
		t.Fatalf("expected 2 orders, got %d", stats.TotalOrders)
	}
	if !stats.TotalRevenue.Equal(money("30.00")) {
		t.Fatalf("expected revenue 30.00, got %s", stats.TotalRevenue)
	}
	if stats.ByStatus["pending"] != 1 || stats.ByStatus["confirmed"] != 1 {
		t.Fatalf("unexpected status counts %v", stats.ByStatus)
	}
}
