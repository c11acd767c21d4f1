package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// Order is a priced, immutable snapshot of a checkout. Totals are computed
// once at creation and never re-priced.
type Order struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	OrderNumber     string              `gorm:"column:order_number;type:text;not null;uniqueIndex"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	TotalItems      int                 `gorm:"column:total_items;not null"`
	OriginalAmount  decimal.Decimal     `gorm:"column:original_amount;type:numeric(10,2);not null"`
	DiscountCode    *string             `gorm:"column:discount_code"`
	DiscountAmount  decimal.Decimal     `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	ShippingAddress string              `gorm:"column:shipping_address;not null"`
	BillingAddress  *string             `gorm:"column:billing_address"`
	Notes           *string             `gorm:"column:notes"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the immutable per-product snapshot of an order line.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName     string          `gorm:"column:product_name;not null"`
	ProductBrand    string          `gorm:"column:product_brand;not null"`
	ProductCategory string          `gorm:"column:product_category;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderDiscount links an order to the discount redeemed against it. The
// composite key makes the insert idempotent under ON CONFLICT DO NOTHING.
type OrderDiscount struct {
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;primaryKey"`
	DiscountID uuid.UUID `gorm:"column:discount_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
