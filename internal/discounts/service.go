package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	dbtypes "github.com/SafinArnob/E-Shop-Management-System/pkg/db/types"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
	apperrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/metrics"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	outcomeApplied = "applied"
)

// Service owns admin-facing discount CRUD plus the customer-facing
// apply-code preview.
type Service interface {
	Create(ctx context.Context, req CreateDiscountRequest) (*DiscountDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateDiscountRequest) (*DiscountDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*DiscountDTO, error)
	List(ctx context.Context, limit, offset int) (*DiscountListDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
	ApplyCode(ctx context.Context, req ApplyCodeRequest) (*Result, error)
	ValidateCode(ctx context.Context, code string) (*CodeValidationDTO, error)
}

type discountRepository interface {
	Create(ctx context.Context, discount *models.Discount) (*models.Discount, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	List(ctx context.Context, limit, offset int) ([]models.Discount, int64, error)
	GetActiveByCode(ctx context.Context, code string, at time.Time) (*models.Discount, error)
	Stats(ctx context.Context, at time.Time) (*StatsDTO, error)
}

type service struct {
	repo    discountRepository
	engine  *Engine
	metrics *metrics.CommerceMetrics
}

// NewService wires the discount service. Metrics may be nil in tests.
func NewService(repo discountRepository, engine *Engine, commerceMetrics *metrics.CommerceMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts: repository is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("discounts: engine is required")
	}
	return &service{repo: repo, engine: engine, metrics: commerceMetrics}, nil
}

func validateValue(calcType enums.CalculationType, value decimal.Decimal) error {
	if !value.IsPositive() {
		return apperrors.New(apperrors.CodeValidation, "discount value must be positive")
	}
	if calcType == enums.CalculationTypePercentage && value.GreaterThan(oneHundred) {
		return apperrors.New(apperrors.CodeValidation, "percentage discounts cannot exceed 100")
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateDiscountRequest) (*DiscountDTO, error) {
	discountType, err := enums.ParseDiscountType(req.DiscountType)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}
	calcType, err := enums.ParseCalculationType(req.CalculationType)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}
	if err := validateValue(calcType, req.Value); err != nil {
		return nil, err
	}
	if discountType == enums.DiscountTypeIndividual && len(req.EligibleProductIDs) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "individual discounts require at least one eligible product")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, apperrors.New(apperrors.CodeValidation, "end date must not precede start date")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	discount := &models.Discount{
		Code:               strings.TrimSpace(req.Code),
		Name:               req.Name,
		Description:        req.Description,
		DiscountType:       discountType,
		CalculationType:    calcType,
		Value:              req.Value,
		MinimumOrderAmount: req.MinimumOrderAmount,
		MinimumQuantity:    req.MinimumQuantity,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		IsActive:           isActive,
		EligibleProductIDs: dbtypes.UUIDArray(req.EligibleProductIDs),
	}
	created, err := s.repo.Create(ctx, discount)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_discounts_code") {
			return nil, apperrors.New(apperrors.CodeConflict, "discount code already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create discount")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateDiscountRequest) (*DiscountDTO, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "discount not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load discount")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Value != nil {
		if err := validateValue(existing.CalculationType, *req.Value); err != nil {
			return nil, err
		}
		updates["value"] = *req.Value
	}
	if req.MinimumOrderAmount != nil {
		updates["minimum_order_amount"] = *req.MinimumOrderAmount
	}
	if req.MinimumQuantity != nil {
		updates["minimum_quantity"] = *req.MinimumQuantity
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.EligibleProductIDs != nil {
		updates["eligible_product_ids"] = dbtypes.UUIDArray(req.EligibleProductIDs)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update discount")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to reload discount")
	}
	dto := FromModel(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "discount not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to load discount")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to delete discount")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DiscountDTO, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "discount not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load discount")
	}
	dto := FromModel(discount)
	return &dto, nil
}

func (s *service) List(ctx context.Context, limit, offset int) (*DiscountListDTO, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list discounts")
	}

	out := make([]DiscountDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return &DiscountListDTO{Discounts: out, Total: total, Limit: limit, Offset: offset}, nil
}

// Stats serves the admin dashboard counters. Active means redeemable
// right now under the engine's clock.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.Stats(ctx, s.engine.now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to aggregate discount stats")
	}
	return stats, nil
}

// ValidateCode checks a code against the active window without pricing
// anything. Unknown, inactive and out-of-window codes all come back as the
// same invalid verdict rather than an error.
func (s *service) ValidateCode(ctx context.Context, code string) (*CodeValidationDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "discount code is required")
	}

	discount, err := s.repo.GetActiveByCode(ctx, code, s.engine.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CodeValidationDTO{Code: code, Valid: false}, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to look up discount code")
	}
	dto := FromModel(discount)
	return &CodeValidationDTO{Code: code, Valid: true, Discount: &dto}, nil
}

// ApplyCode runs the pricing engine as a side-effect-free preview and
// records the outcome for observability.
func (s *service) ApplyCode(ctx context.Context, req ApplyCodeRequest) (*Result, error) {
	result, err := s.engine.Apply(ctx, req.DiscountCode, req.CartItems)
	if err != nil {
		return nil, err
	}
	if result.Success {
		s.metrics.IncDiscountApplied(outcomeApplied)
	} else {
		s.metrics.IncDiscountApplied(result.Reason)
	}
	return result, nil
}
