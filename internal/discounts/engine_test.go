package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	dbtypes "github.com/SafinArnob/E-Shop-Management-System/pkg/db/types"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

type stubRegistry struct {
	byCode map[string]*models.Discount
}

func newStubRegistry(discounts ...*models.Discount) *stubRegistry {
	r := &stubRegistry{byCode: map[string]*models.Discount{}}
	for _, d := range discounts {
		r.byCode[d.Code] = d
	}
	return r
}

func (r *stubRegistry) GetActiveByCode(ctx context.Context, code string, at time.Time) (*models.Discount, error) {
	d, ok := r.byCode[code]
	if !ok || !d.ActiveAt(at) {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func buildEngine(t *testing.T, registry *stubRegistry) *Engine {
	t.Helper()
	engine, err := NewEngine(registry, func() time.Time {
		return time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return engine
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Two-line cart used across scenarios: 2x10.00 + 1x5.00 = 25.00, 3 units.
func sampleItems() (uuid.UUID, uuid.UUID, []PricedItem) {
	productA := uuid.New()
	productB := uuid.New()
	return productA, productB, []PricedItem{
		{ProductID: productA, Price: money("10.00"), Quantity: 2},
		{ProductID: productB, Price: money("5.00"), Quantity: 1},
	}
}

func TestEngineGlobalPercentage(t *testing.T) {
	_, _, items := sampleItems()
	engine := buildEngine(t, newStubRegistry(&models.Discount{
		ID:              uuid.New(),
		Code:            "SAVE10",
		Name:            "Ten percent off",
		DiscountType:    enums.DiscountTypeGlobal,
		CalculationType: enums.CalculationTypePercentage,
		Value:           money("10"),
		IsActive:        true,
	}))

	result, err := engine.Apply(context.Background(), "SAVE10", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got reason %s", result.Reason)
	}
	if !result.OriginalTotal.Equal(money("25.00")) {
		t.Fatalf("expected original 25.00, got %s", result.OriginalTotal)
	}
	if !result.DiscountAmount.Equal(money("2.50")) {
		t.Fatalf("expected discount 2.50, got %s", result.DiscountAmount)
	}
	if !result.FinalTotal.Equal(money("22.50")) {
		t.Fatalf("expected final 22.50, got %s", result.FinalTotal)
	}
	if !result.SavingsPercentage.Equal(money("10")) {
		t.Fatalf("expected savings 10%%, got %s", result.SavingsPercentage)
	}
	if result.Discount == nil || result.Discount.Code != "SAVE10" {
		t.Fatalf("expected discount info echoed, got %+v", result.Discount)
	}
}

func TestEngineFlatClampedToBase(t *testing.T) {
	_, _, items := sampleItems()
	engine := buildEngine(t, newStubRegistry(&models.Discount{
		ID:              uuid.New(),
		Code:            "FLAT30",
		Name:            "Thirty off",
		DiscountType:    enums.DiscountTypeGlobal,
		CalculationType: enums.CalculationTypeFlat,
		Value:           money("30.00"),
		IsActive:        true,
	}))

	result, err := engine.Apply(context.Background(), "FLAT30", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got reason %s", result.Reason)
	}
	if !result.DiscountAmount.Equal(money("25.00")) {
		t.Fatalf("expected discount clamped to 25.00, got %s", result.DiscountAmount)
	}
	if !result.FinalTotal.Equal(money("0.00")) {
		t.Fatalf("expected final 0.00, got %s", result.FinalTotal)
	}
}

func TestEnginePercentageOverHundredClamped(t *testing.T) {
	_, _, items := sampleItems()
	engine := buildEngine(t, newStubRegistry(&models.Discount{
		ID:              uuid.New(),
		Code:            "BROKEN150",
		Name:            "Misconfigured",
		DiscountType:    enums.DiscountTypeGlobal,
		CalculationType: enums.CalculationTypePercentage,
		Value:           money("150"),
		IsActive:        true,
	}))

	result, err := engine.Apply(context.Background(), "BROKEN150", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.DiscountAmount.Equal(money("25.00")) {
		t.Fatalf("expected discount clamped to base, got %s", result.DiscountAmount)
	}
	if result.FinalTotal.IsNegative() {
		t.Fatalf("final total went negative: %s", result.FinalTotal)
	}
}

func TestEngineUnknownAndExpiredCodes(t *testing.T) {
	_, _, items := sampleItems()
	past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := buildEngine(t, newStubRegistry(
		&models.Discount{
			ID:              uuid.New(),
			Code:            "EXPIRED",
			Name:            "Old promo",
			DiscountType:    enums.DiscountTypeGlobal,
			CalculationType: enums.CalculationTypePercentage,
			Value:           money("10"),
			IsActive:        true,
			EndDate:         &past,
		},
		&models.Discount{
			ID:              uuid.New(),
			Code:            "DISABLED",
			Name:            "Switched off",
			DiscountType:    enums.DiscountTypeGlobal,
			CalculationType: enums.CalculationTypePercentage,
			Value:           money("10"),
			IsActive:        false,
		},
	))

	for _, code := range []string{"NOPE", "EXPIRED", "DISABLED"} {
		result, err := engine.Apply(context.Background(), code, items)
		if err != nil {
			t.Fatalf("apply %s: %v", code, err)
		}
		if result.Success || result.Reason != ReasonInvalidCode {
			t.Fatalf("expected %s rejected as invalid code, got %+v", code, result)
		}
	}
}

func TestEngineMinimumThresholds(t *testing.T) {
	_, _, items := sampleItems()
	minAmount := money("50.00")
	minQuantity := 5
	engine := buildEngine(t, newStubRegistry(
		&models.Discount{
			ID:                 uuid.New(),
			Code:               "BIGSPEND",
			Name:               "Big spender",
			DiscountType:       enums.DiscountTypeGlobal,
			CalculationType:    enums.CalculationTypePercentage,
			Value:              money("10"),
			MinimumOrderAmount: &minAmount,
			IsActive:           true,
		},
		&models.Discount{
			ID:              uuid.New(),
			Code:            "BULK5",
			Name:            "Bulk buyer",
			DiscountType:    enums.DiscountTypeGlobal,
			CalculationType: enums.CalculationTypePercentage,
			Value:           money("10"),
			MinimumQuantity: &minQuantity,
			IsActive:        true,
		},
	))

	result, err := engine.Apply(context.Background(), "BIGSPEND", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Success || result.Reason != ReasonBelowMinimumAmount {
		t.Fatalf("expected below minimum amount, got %+v", result)
	}

	result, err = engine.Apply(context.Background(), "BULK5", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Success || result.Reason != ReasonBelowMinimumQuantity {
		t.Fatalf("expected below minimum quantity, got %+v", result)
	}
}

func TestEngineIndividualDiscountsEligibleSubtotalOnly(t *testing.T) {
	productA, _, items := sampleItems()
	engine := buildEngine(t, newStubRegistry(&models.Discount{
		ID:                 uuid.New(),
		Code:               "AONLY",
		Name:               "Product A promo",
		DiscountType:       enums.DiscountTypeIndividual,
		CalculationType:    enums.CalculationTypePercentage,
		Value:              money("50"),
		IsActive:           true,
		EligibleProductIDs: dbtypes.UUIDArray{productA},
	}))

	result, err := engine.Apply(context.Background(), "AONLY", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got reason %s", result.Reason)
	}
	// 50% of the eligible 20.00 subtotal; product B stays full price.
	if !result.DiscountAmount.Equal(money("10.00")) {
		t.Fatalf("expected discount 10.00, got %s", result.DiscountAmount)
	}
	if !result.FinalTotal.Equal(money("15.00")) {
		t.Fatalf("expected final 15.00, got %s", result.FinalTotal)
	}

	engineNoMatch := buildEngine(t, newStubRegistry(&models.Discount{
		ID:                 uuid.New(),
		Code:               "CONLY",
		Name:               "Product C promo",
		DiscountType:       enums.DiscountTypeIndividual,
		CalculationType:    enums.CalculationTypePercentage,
		Value:              money("50"),
		IsActive:           true,
		EligibleProductIDs: dbtypes.UUIDArray{uuid.New()},
	}))
	result, err = engineNoMatch.Apply(context.Background(), "CONLY", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Success || result.Reason != ReasonNoEligibleItems {
		t.Fatalf("expected no eligible items, got %+v", result)
	}
}

func TestEngineIndividualZeroPricedEligibleItemStillApplies(t *testing.T) {
	freebie := uuid.New()
	items := []PricedItem{
		{ProductID: freebie, Price: money("0.00"), Quantity: 1},
		{ProductID: uuid.New(), Price: money("12.00"), Quantity: 1},
	}
	engine := buildEngine(t, newStubRegistry(&models.Discount{
		ID:                 uuid.New(),
		Code:               "FREEBIE",
		Name:               "Freebie promo",
		DiscountType:       enums.DiscountTypeIndividual,
		CalculationType:    enums.CalculationTypePercentage,
		Value:              money("50"),
		IsActive:           true,
		EligibleProductIDs: dbtypes.UUIDArray{freebie},
	}))

	result, err := engine.Apply(context.Background(), "FREEBIE", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	// The eligible line exists even though it sums to zero, so the code
	// applies with nothing to take off rather than being rejected.
	if !result.Success {
		t.Fatalf("expected success, got reason %s", result.Reason)
	}
	if !result.DiscountAmount.IsZero() {
		t.Fatalf("expected zero discount, got %s", result.DiscountAmount)
	}
	if !result.FinalTotal.Equal(money("12.00")) {
		t.Fatalf("expected final 12.00, got %s", result.FinalTotal)
	}
}

func TestEngineBundleBehavesLikeGlobal(t *testing.T) {
	_, _, items := sampleItems()
	engine := buildEngine(t, newStubRegistry(&models.Discount{
		ID:              uuid.New(),
		Code:            "BUNDLE20",
		Name:            "Bundle promo",
		DiscountType:    enums.DiscountTypeBundle,
		CalculationType: enums.CalculationTypePercentage,
		Value:           money("20"),
		IsActive:        true,
	}))

	result, err := engine.Apply(context.Background(), "BUNDLE20", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.Success || !result.DiscountAmount.Equal(money("5.00")) {
		t.Fatalf("expected 5.00 off the whole cart, got %+v", result)
	}
}

func TestEngineSavingsPercentageRounding(t *testing.T) {
	items := []PricedItem{{ProductID: uuid.New(), Price: money("9.99"), Quantity: 3}}
	engine := buildEngine(t, newStubRegistry(&models.Discount{
		ID:              uuid.New(),
		Code:            "FLAT7",
		Name:            "Seven off",
		DiscountType:    enums.DiscountTypeGlobal,
		CalculationType: enums.CalculationTypeFlat,
		Value:           money("7.00"),
		IsActive:        true,
	}))

	result, err := engine.Apply(context.Background(), "FLAT7", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	// 7.00 / 29.97 = 23.3567% -> 23.36 at two decimals.
	if !result.SavingsPercentage.Equal(money("23.36")) {
		t.Fatalf("expected savings 23.36, got %s", result.SavingsPercentage)
	}
}
