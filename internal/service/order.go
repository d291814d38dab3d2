package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/internal/notify"
	"github.com/mallikarjunadanduba/FitLife360/pkg/payment"
)

// PaymentGateway is the order workflow's port to the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (*payment.GatewayOrder, error)
	FetchAndVerifyPayment(ctx context.Context, paymentID string) (*payment.CaptureResult, error)
}

// OrderService orchestrates order creation, payment processing and
// compensating cancellation.
type OrderService struct {
	db         *gorm.DB
	inventory  InventoryLedger
	gateway    PaymentGateway
	dispatcher notify.Dispatcher
	log        *zap.Logger
}

func NewOrderService(db *gorm.DB, gateway PaymentGateway, dispatcher notify.Dispatcher, log *zap.Logger) *OrderService {
	return &OrderService{
		db:         db,
		gateway:    gateway,
		dispatcher: dispatcher,
		log:        log,
	}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress string           `json:"shipping_address"`
	BillingAddress  string           `json:"billing_address"`
	PaymentMethod   string           `json:"payment_method"`
	Notes           string           `json:"notes"`
}

// ConfirmResult reports a successful payment confirmation.
type ConfirmResult struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

// newOrderNumber builds a date-stamped order number with a random suffix.
// Eight characters of a UUID keep the collision probability negligible.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("FL%s%s", now.Format("20060102"), suffix)
}

// Create places a new order. Product validation, price snapshotting, stock
// reservation and order/item persistence happen in one transaction: if any
// item cannot be reserved, nothing is applied.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	order := &model.Order{
		UserID:          userID,
		OrderNumber:     newOrderNumber(time.Now()),
		Status:          model.OrderPending,
		PaymentStatus:   model.PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]model.OrderItem, 0, len(in.Items))

		for _, item := range in.Items {
			product, err := s.inventory.Reserve(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}

			itemTotal := product.Price * float64(item.Quantity)
			total += itemTotal
			items = append(items, model.OrderItem{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  product.Price,
				TotalPrice: itemTotal,
			})
		}

		order.TotalAmount = total
		order.Items = items

		if err := tx.Create(order).Error; err != nil {
			return apperr.Internal(err, "failed to persist order")
		}

		return checkOrderTotal(order)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("user_id", userID),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("items", len(order.Items)))

	dispatch(ctx, s.dispatcher, s.log, notify.EventOrderCreated, userID, order.ID,
		fmt.Sprintf("Order %s placed", order.OrderNumber))

	return order, nil
}

// checkOrderTotal verifies the order total against its items at commit time.
// A mismatch is a broken invariant, surfaced as an internal error.
func checkOrderTotal(order *model.Order) error {
	var sum float64
	for _, item := range order.Items {
		sum += item.TotalPrice
	}
	if math.Abs(sum-order.TotalAmount) > 1e-9 {
		return apperr.Internal(nil, "order %s total %.2f does not match item sum %.2f",
			order.OrderNumber, order.TotalAmount, sum)
	}
	return nil
}

// CreatePayment registers a gateway order for the given order and returns the
// external reference the client completes payment against.
func (s *OrderService) CreatePayment(ctx context.Context, orderID, actorID uint) (*payment.GatewayOrder, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, actorID, false)
	if err != nil {
		return nil, err
	}

	if order.TotalAmount <= 0 {
		return nil, apperr.Validation("invalid order amount")
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, order.TotalAmount, order.OrderNumber)
	if err != nil {
		return nil, err
	}

	s.log.Info("Gateway order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("gateway_order_id", gwOrder.ID))

	return gwOrder, nil
}

// ConfirmPayment reconciles the gateway's settlement status with local state.
// Only valid while payment_status is pending; re-invocation after a terminal
// state is rejected. On rejection or gateway failure the payment is marked
// failed; reserved stock is not restored (cancellation is the compensating path).
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, actorID uint, paymentID string) (*ConfirmResult, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, actorID, false)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus.Terminal() {
		return nil, apperr.Conflict("payment already processed")
	}

	capture, gwErr := s.gateway.FetchAndVerifyPayment(ctx, paymentID)

	if gwErr != nil || !capture.Captured {
		if err := s.settlePayment(ctx, orderID, false); err != nil {
			return nil, err
		}
		if gwErr != nil {
			s.log.Error("Payment verification failed at gateway",
				zap.Uint("order_id", orderID),
				zap.String("payment_id", paymentID),
				zap.Error(gwErr))
			return nil, gwErr
		}
		s.log.Warn("Payment not captured",
			zap.Uint("order_id", orderID),
			zap.String("payment_id", paymentID),
			zap.String("gateway_status", capture.Status))
		return nil, apperr.Validation("payment not captured, status: %s", capture.Status)
	}

	if err := s.settlePayment(ctx, orderID, true); err != nil {
		return nil, err
	}

	s.log.Info("Payment completed",
		zap.Uint("order_id", orderID),
		zap.String("transaction_id", capture.TransactionID))

	dispatch(ctx, s.dispatcher, s.log, notify.EventOrderConfirmed, order.UserID, order.ID,
		fmt.Sprintf("Payment received for order %s", order.OrderNumber))

	return &ConfirmResult{
		TransactionID: capture.TransactionID,
		Amount:        capture.Amount,
		Currency:      capture.Currency,
	}, nil
}

// settlePayment records the payment outcome. The order row is locked and the
// pending state re-checked inside the transaction, so a concurrent confirmation
// cannot apply a second terminal transition.
func (s *OrderService) settlePayment(ctx context.Context, orderID uint, succeeded bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := forUpdate(tx).First(&order, orderID).Error; err != nil {
			return apperr.Internal(err, "failed to reload order %d", orderID)
		}

		next := model.PaymentFailed
		if succeeded {
			next = model.PaymentCompleted
		}
		if !order.PaymentStatus.CanTransitionTo(next) {
			return apperr.Conflict("payment already processed")
		}

		updates := map[string]any{"payment_status": next}
		if succeeded {
			updates["status"] = model.OrderConfirmed
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return apperr.Internal(err, "failed to update payment status for order %d", orderID)
		}
		return nil
	})
}

// Cancel moves the order to cancelled and releases every item's stock back to
// the ledger as one compensating transaction. Rejected once the order has
// shipped, been delivered, or is already cancelled.
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID uint, isAdmin bool) error {
	var order model.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return apperr.Internal(err, "failed to load order %d", orderID)
		}

		if order.UserID != actorID && !isAdmin {
			return apperr.PermissionDenied("not enough permissions")
		}

		if !order.Status.Cancellable() {
			return apperr.State("cannot cancel order in status %s", order.Status)
		}

		if err := tx.Model(&model.Order{}).Where("id = ?", orderID).
			Update("status", model.OrderCancelled).Error; err != nil {
			return apperr.Internal(err, "failed to cancel order %d", orderID)
		}

		for _, item := range order.Items {
			if err := s.inventory.Release(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Order cancelled",
		zap.Uint("order_id", orderID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("actor_id", actorID))

	dispatch(ctx, s.dispatcher, s.log, notify.EventOrderCancelled, order.UserID, order.ID,
		fmt.Sprintf("Order %s cancelled", order.OrderNumber))

	return nil
}

// UpdateStatus applies a fulfillment transition (admin only at the API layer).
// The edge is validated against the order transition table; cancellation goes
// through Cancel so stock compensation is never skipped.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, next model.OrderStatus) error {
	if !next.Valid() {
		return apperr.Validation("invalid status %q", next)
	}
	if next == model.OrderCancelled {
		return apperr.Validation("use the cancel operation to cancel an order")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := forUpdate(tx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return apperr.Internal(err, "failed to load order %d", orderID)
		}

		if !order.Status.CanTransitionTo(next) {
			return apperr.State("cannot move order from %s to %s", order.Status, next)
		}

		if err := tx.Model(&model.Order{}).Where("id = ?", orderID).
			Update("status", next).Error; err != nil {
			return apperr.Internal(err, "failed to update order %d status", orderID)
		}
		return nil
	})
}

func (s *OrderService) loadOwnedOrder(ctx context.Context, orderID, actorID uint, isAdmin bool) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal(err, "failed to load order %d", orderID)
	}
	if order.UserID != actorID && !isAdmin {
		return nil, apperr.PermissionDenied("not enough permissions")
	}
	return &order, nil
}
