package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
)

// The products table is created by hand here because the uuid default in
// the model tag is Postgres-only syntax.
const testProductsSchema = `
CREATE TABLE products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	brand TEXT NOT NULL,
	description TEXT,
	price NUMERIC NOT NULL,
	created_at DATETIME,
	updated_at DATETIME
)`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(testProductsSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, repo *Repository, name, category, brand, price string) *models.Product {
	t.Helper()
	created, err := repo.Create(context.Background(), &models.Product{
		Name:     name,
		Category: category,
		Brand:    brand,
		Price:    decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("seed product %q: %v", name, err)
	}
	return created
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	created := seedProduct(t, repo, "Trail Pack 30L", "backpacks", "Northbound", "89.99")
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	found, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Name != "Trail Pack 30L" {
		t.Fatalf("unexpected name %q", found.Name)
	}
	if !found.Price.Equal(decimal.RequireFromString("89.99")) {
		t.Fatalf("unexpected price %s", found.Price)
	}
}

func TestRepositoryFindByIDs(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	a := seedProduct(t, repo, "Pack A", "backpacks", "Northbound", "10.00")
	b := seedProduct(t, repo, "Pack B", "backpacks", "Northbound", "20.00")
	seedProduct(t, repo, "Pack C", "backpacks", "Northbound", "30.00")

	rows, err := repo.FindByIDs(context.Background(), []uuid.UUID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	rows, err = repo.FindByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty id list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows for empty id list, got %d", len(rows))
	}
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	created := seedProduct(t, repo, "Trail Pack 30L", "backpacks", "Northbound", "89.99")

	err := repo.Update(context.Background(), created.ID, map[string]any{
		"name":  "Trail Pack 35L",
		"price": decimal.RequireFromString("99.99"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	found, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Name != "Trail Pack 35L" {
		t.Fatalf("unexpected name %q", found.Name)
	}

	if err := repo.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = repo.FindByID(context.Background(), created.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestRepositoryListFilters(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	seedProduct(t, repo, "Trail Pack 30L", "backpacks", "Northbound", "89.99")
	seedProduct(t, repo, "Summit Tent 2P", "tents", "Northbound", "249.00")
	seedProduct(t, repo, "River Sandals", "footwear", "Driftline", "39.50")

	rows, total, err := repo.List(context.Background(), ListFilters{Brand: "Northbound", Limit: 10})
	if err != nil {
		t.Fatalf("list by brand: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 Northbound products, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = repo.List(context.Background(), ListFilters{Search: "tent", Limit: 10})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if total != 1 || rows[0].Name != "Summit Tent 2P" {
		t.Fatalf("expected the tent, got total=%d rows=%v", total, rows)
	}

	rows, total, err = repo.List(context.Background(), ListFilters{Category: "footwear", Limit: 10})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if total != 1 || rows[0].Brand != "Driftline" {
		t.Fatalf("expected the sandals, got total=%d", total)
	}

	rows, total, err = repo.List(context.Background(), ListFilters{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if total != 3 || len(rows) != 1 {
		t.Fatalf("expected page with 1 of 3, got total=%d rows=%d", total, len(rows))
	}
}
