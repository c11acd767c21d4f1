package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/internal/cart"
	"github.com/SafinArnob/E-Shop-Management-System/internal/discounts"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/db"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
	apperrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/logger"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/metrics"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service is the single authoritative path from a customer's cart to a
// persisted order, plus the read and transition operations on orders.
type Service interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, req CreateOrderRequest) (*CreateOrderResult, error)
	PreviewOrder(ctx context.Context, customerID uuid.UUID, discountCode string) (*PreviewDTO, error)
	Get(ctx context.Context, customerID uuid.UUID, orderID uuid.UUID, isAdmin bool) (*OrderDTO, error)
	List(ctx context.Context, customerID uuid.UUID, limit, offset int) (*OrderListDTO, error)
	ListAll(ctx context.Context, limit, offset int) (*OrderListDTO, error)
	CancelOrder(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*OrderDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// OrderStore is the persistence surface the pipeline needs for orders.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error
	LinkDiscount(ctx context.Context, orderID, discountID uuid.UUID) error
	Stats(ctx context.Context) (*StatsDTO, error)
}

// CartStore is the cart surface the pipeline needs.
type CartStore interface {
	FindOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	ClearByCart(ctx context.Context, cartID uuid.UUID) error
	CountItems(ctx context.Context, cartID uuid.UUID) (int64, error)
}

// TxRunner runs a function inside a storage transaction, rolling back on
// error. Satisfied by the db client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the order pipeline. OrdersTx and CartTx bind the
// stores to an open transaction; when nil the untransacted stores are
// reused, which stub-backed tests rely on.
type ServiceParams struct {
	Tx        TxRunner
	Orders    OrderStore
	Cart      CartStore
	OrdersTx  func(tx *gorm.DB) OrderStore
	CartTx    func(tx *gorm.DB) CartStore
	Validator *cart.Validator
	Engine    *discounts.Engine
	Metrics   *metrics.CommerceMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	tx        TxRunner
	orders    OrderStore
	cart      CartStore
	ordersTx  func(tx *gorm.DB) OrderStore
	cartTx    func(tx *gorm.DB) CartStore
	validator *cart.Validator
	engine    *discounts.Engine
	metrics   *metrics.CommerceMetrics
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(p ServiceParams) (Service, error) {
	if p.Tx == nil {
		return nil, fmt.Errorf("orders: tx runner is required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("orders: order store is required")
	}
	if p.Cart == nil {
		return nil, fmt.Errorf("orders: cart store is required")
	}
	if p.Validator == nil {
		return nil, fmt.Errorf("orders: cart validator is required")
	}
	if p.Engine == nil {
		return nil, fmt.Errorf("orders: discount engine is required")
	}
	if p.OrdersTx == nil {
		p.OrdersTx = func(tx *gorm.DB) OrderStore { return p.Orders }
	}
	if p.CartTx == nil {
		p.CartTx = func(tx *gorm.DB) CartStore { return p.Cart }
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		tx:        p.Tx,
		orders:    p.Orders,
		cart:      p.Cart,
		ordersTx:  p.OrdersTx,
		cartTx:    p.CartTx,
		validator: p.Validator,
		engine:    p.Engine,
		metrics:   p.Metrics,
		logg:      p.Logger,
		now:       p.Now,
	}, nil
}

func cartTotals(c *models.Cart) (decimal.Decimal, int) {
	total := decimal.Zero
	quantity := 0
	for i := range c.Items {
		item := &c.Items[i]
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		quantity += item.Quantity
	}
	return total, quantity
}

func pricedItems(c *models.Cart) []discounts.PricedItem {
	items := make([]discounts.PricedItem, 0, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		items = append(items, discounts.PricedItem{
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return items
}

// CreateOrder runs the checkout pipeline: validate the cart against the
// catalog, price it (optionally under a discount code), then persist the
// order, its item snapshots and the discount link in one transaction. The
// cart is cleared after commit; a failed clear is logged and surfaced as a
// warning only, since the order itself is already correct.
//
// Client-supplied totals are never trusted: every money figure on the
// persisted order is recomputed here from cart and catalog state.
func (s *service) CreateOrder(ctx context.Context, customerID uuid.UUID, req CreateOrderRequest) (*CreateOrderResult, error) {
	paymentMethod, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}

	cartRow, err := s.cart.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}
	if len(cartRow.Items) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "cart is empty")
	}

	validation, err := s.validator.Validate(ctx, cartRow)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, apperrors.New(apperrors.CodeConflict, "cart contents changed since they were added").
			WithDetails(map[string]any{"changes": validation.Changes})
	}

	originalAmount, totalQuantity := cartTotals(cartRow)
	totalAmount := originalAmount
	discountAmount := decimal.Zero
	var discountResult *discounts.Result
	var discountCode *string

	if req.DiscountCode != nil && *req.DiscountCode != "" {
		result, err := s.engine.Apply(ctx, *req.DiscountCode, pricedItems(cartRow))
		if err != nil {
			return nil, err
		}
		if !result.Success {
			s.metrics.IncDiscountApplied(result.Reason)
			return nil, apperrors.New(apperrors.CodeValidation, result.Message).
				WithDetails(map[string]any{"reason": result.Reason})
		}
		s.metrics.IncDiscountApplied("applied")
		discountResult = result
		discountAmount = result.DiscountAmount
		totalAmount = result.FinalTotal
		code := result.Discount.Code
		discountCode = &code
	}

	orderNumber, err := NewOrderNumber(s.now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to generate order number")
	}

	order := &models.Order{
		CustomerID:      customerID,
		OrderNumber:     orderNumber,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   paymentMethod,
		TotalItems:      totalQuantity,
		OriginalAmount:  originalAmount,
		DiscountCode:    discountCode,
		DiscountAmount:  discountAmount,
		TotalAmount:     totalAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
	}
	for i := range cartRow.Items {
		item := &cartRow.Items[i]
		order.Items = append(order.Items, models.OrderItem{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductBrand:    item.ProductBrand,
			ProductCategory: item.ProductCategory,
			Quantity:        item.Quantity,
			UnitPrice:       item.Price,
			TotalPrice:      item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// Two checkouts can race on the same cart; re-checking inside the
		// transaction keeps the loser from persisting an order off a cart
		// that was already consumed.
		count, err := s.cartTx(tx).CountItems(ctx, cartRow.ID)
		if err != nil {
			return err
		}
		if count != int64(len(cartRow.Items)) {
			return apperrors.New(apperrors.CodeConflict, "cart contents changed since they were added")
		}

		txOrders := s.ordersTx(tx)
		if _, err := txOrders.Create(ctx, order); err != nil {
			return err
		}
		if discountResult != nil {
			if err := txOrders.LinkDiscount(ctx, order.ID, discountResult.Discount.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_orders_number") {
			return nil, apperrors.New(apperrors.CodeConflict, "order number collision, please retry")
		}
		if appErr := apperrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to persist order")
	}

	if err := s.cart.ClearByCart(ctx, cartRow.ID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "order created but cart clear failed", err)
	}

	s.metrics.IncOrderCreated(paymentMethod.String(), totalAmount.InexactFloat64())

	return &CreateOrderResult{
		Order:           FromModel(order),
		OrderNumber:     order.OrderNumber,
		DiscountApplied: discountResult,
	}, nil
}

// PreviewOrder prices the current cart, optionally under a discount code,
// without creating anything.
func (s *service) PreviewOrder(ctx context.Context, customerID uuid.UUID, discountCode string) (*PreviewDTO, error) {
	cartRow, err := s.cart.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load cart")
	}

	originalAmount, _ := cartTotals(cartRow)
	preview := &PreviewDTO{
		Cart:           cart.FromModel(cartRow),
		OriginalAmount: originalAmount,
		DiscountAmount: decimal.Zero,
		TotalAmount:    originalAmount,
	}
	if discountCode == "" || len(cartRow.Items) == 0 {
		return preview, nil
	}

	result, err := s.engine.Apply(ctx, discountCode, pricedItems(cartRow))
	if err != nil {
		return nil, err
	}
	preview.Discount = result
	if result.Success {
		preview.DiscountAmount = result.DiscountAmount
		preview.TotalAmount = result.FinalTotal
	}
	return preview, nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID, orderID uuid.UUID, isAdmin bool) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.CustomerID != customerID {
		return nil, apperrors.New(apperrors.CodeForbidden, "order belongs to another customer")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID, limit, offset int) (*OrderListDTO, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.orders.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return &OrderListDTO{Orders: out, Total: total, Limit: limit, Offset: offset}, nil
}

// ListAll pages through every customer's orders for the admin views.
func (s *service) ListAll(ctx context.Context, limit, offset int) (*OrderListDTO, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.orders.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return &OrderListDTO{Orders: out, Total: total, Limit: limit, Offset: offset}, nil
}

// CancelOrder is permitted only to the owning customer and only while the
// order is still pending.
func (s *service) CancelOrder(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, apperrors.New(apperrors.CodeForbidden, "order belongs to another customer")
	}
	if !order.Status.IsCancellable() {
		return nil, apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to cancel order")
	}
	s.metrics.IncOrderCancelled()

	order.Status = enums.OrderStatusCancelled
	return FromModel(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %q to %q", order.Status, next))
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update order status")
	}
	if next == enums.OrderStatusCancelled {
		s.metrics.IncOrderCancelled()
	}
	order.Status = next
	return FromModel(order), nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*OrderDTO, error) {
	next, err := enums.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdatePaymentStatus(ctx, order.ID, next); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update payment status")
	}
	order.PaymentStatus = next
	return FromModel(order), nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to aggregate order stats")
	}
	return stats, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load order")
	}
	return order, nil
}
