package discounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
)

// Repository is the persistence layer for discount definitions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if discount.ID == uuid.Nil {
		discount.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return nil, err
	}
	return discount, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Discount{}).
		Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&discount).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// FindByCode matches the code case-sensitively.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&discount).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// GetActiveByCode resolves a code and applies the active-window filter, so
// callers never see a discount that cannot be redeemed at the given
// instant. Inactive and out-of-window codes surface as record-not-found,
// indistinguishable from unknown codes.
func (r *Repository) GetActiveByCode(ctx context.Context, code string, at time.Time) (*models.Discount, error) {
	discount, err := r.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !discount.ActiveAt(at) {
		return nil, gorm.ErrRecordNotFound
	}
	return discount, nil
}

// Stats counts discount definitions, how many are redeemable at the given
// instant, and how many order redemptions have been recorded overall.
func (r *Repository) Stats(ctx context.Context, at time.Time) (*StatsDTO, error) {
	stats := &StatsDTO{}
	if err := r.db.WithContext(ctx).Model(&models.Discount{}).Count(&stats.TotalDiscounts).Error; err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Count(&stats.ActiveDiscounts).
		Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderDiscount{}).Count(&stats.TotalRedemptions).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Discount, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Discount{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var discounts []models.Discount
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&discounts).
		Error
	if err != nil {
		return nil, 0, err
	}
	return discounts, total, nil
}
