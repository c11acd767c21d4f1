package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/SafinArnob/E-Shop-Management-System/pkg/db/types"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// Discount is a promotional code definition. Codes are unique and
// case-sensitive; the active window is half-open on either side when a
// bound is nil.
type Discount struct {
	ID                 uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string                `gorm:"type:text;not null;uniqueIndex"`
	Name               string                `gorm:"column:name;not null"`
	Description        *string               `gorm:"column:description"`
	DiscountType       enums.DiscountType    `gorm:"column:discount_type;type:text;not null"`
	CalculationType    enums.CalculationType `gorm:"column:calculation_type;type:text;not null"`
	Value              decimal.Decimal       `gorm:"column:value;type:numeric(10,2);not null"`
	MinimumOrderAmount *decimal.Decimal      `gorm:"column:minimum_order_amount;type:numeric(10,2)"`
	MinimumQuantity    *int                  `gorm:"column:minimum_quantity"`
	StartDate          *time.Time            `gorm:"column:start_date"`
	EndDate            *time.Time            `gorm:"column:end_date"`
	IsActive           bool                  `gorm:"column:is_active;not null;default:true"`
	EligibleProductIDs dbtypes.UUIDArray     `gorm:"column:eligible_product_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the discount can be redeemed at the given
// instant: the is_active switch is on and the instant falls inside the
// optional start/end window.
func (d Discount) ActiveAt(at time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.StartDate != nil && at.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && at.After(*d.EndDate) {
		return false
	}
	return true
}
