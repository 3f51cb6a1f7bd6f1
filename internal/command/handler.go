package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/ec-order-service/internal/client"
	"github.com/example/ec-order-service/internal/domain/order"
	"github.com/example/ec-order-service/internal/fact"
	"github.com/example/ec-order-service/internal/infrastructure/store"
)

// Handler orchestrates the order saga across the cart, product and coupon
// services. Saga steps run strictly in sequence: each step depends on the
// one before it, and a failed mandatory step aborts the rest.
type Handler struct {
	store     store.OrderStoreInterface
	carts     client.CartClient
	inventory client.InventoryClient
	coupons   client.CouponClient
	publisher fact.Publisher
}

func NewHandler(
	orderStore store.OrderStoreInterface,
	carts client.CartClient,
	inventory client.InventoryClient,
	coupons client.CouponClient,
	publisher fact.Publisher,
) *Handler {
	return &Handler{
		store:     orderStore,
		carts:     carts,
		inventory: inventory,
		coupons:   coupons,
		publisher: publisher,
	}
}

// bestEffort runs a non-critical side effect and logs its failure.
// The order has already been committed by the time these run; nothing
// here may affect the operation's outcome.
func bestEffort(what string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("[Order] %s failed: %v", what, err)
	}
}

// CreateOrder runs the create-order saga:
// cart fetch -> stock reservation -> coupon validation -> pricing ->
// persist -> best-effort coupon use, cart clear and fact publication.
func (h *Handler) CreateOrder(ctx context.Context, cmd CreateOrder) (*order.Order, error) {
	// 1. Fetch the user's cart.
	cart, err := h.carts.GetCart(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("get cart for user %s: %w", cmd.UserID, err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, order.ErrEmptyCart
	}

	// 2. Reserve stock line by line. A rejected line aborts the saga;
	// earlier reservations are left in place, matching the product
	// service's ledger semantics.
	for _, item := range cart.Items {
		if err := h.inventory.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			if errors.Is(err, client.ErrStockRejected) {
				return nil, &order.InsufficientStockError{ProductID: item.ProductID}
			}
			return nil, fmt.Errorf("reserve stock for product %s: %w", item.ProductID, err)
		}
	}

	// 3. Validate the coupon against the cart total, if one was supplied.
	discount := decimal.Zero
	var couponID *uuid.UUID
	if cmd.CouponCode != "" {
		validation, err := h.coupons.Validate(ctx, cmd.CouponCode, cart.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("validate coupon %s: %w", cmd.CouponCode, err)
		}
		if !validation.IsValid {
			return nil, &order.InvalidCouponError{Message: validation.Message}
		}
		discount = validation.DiscountAmount
		couponID = validation.CouponID
	}

	// 4. Compute pricing.
	totals := order.ComputeTotals(cart.TotalPrice, discount, cmd.ShippingAddress.Country)

	// 5-6. Build the aggregate with snapshotted line items and persist it.
	items := make([]order.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = order.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			TotalPrice:  item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
	}

	o := &order.Order{
		ID:              uuid.New(),
		UserID:          cmd.UserID,
		OrderNumber:     order.GenerateOrderNumber(),
		Status:          order.StatusPending,
		Items:           items,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingCost:    totals.ShippingCost,
		Discount:        totals.Discount,
		TotalAmount:     totals.TotalAmount,
		ShippingAddress: cmd.ShippingAddress,
		PaymentInfo: order.PaymentInfo{
			Method:     cmd.PaymentMethod,
			AmountPaid: totals.TotalAmount,
		},
		CouponCode: cmd.CouponCode,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.store.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// 7-9. The order is committed; the rest must never roll it back.
	if couponID != nil {
		bestEffort("mark coupon used", func() error {
			return h.coupons.MarkUsed(ctx, *couponID)
		})
	}
	bestEffort("clear cart", func() error {
		return h.carts.ClearCart(ctx, cmd.UserID)
	})
	bestEffort("publish OrderCreated", func() error {
		return h.publisher.Publish(ctx, o.ID.String(), fact.FactOrderCreated, orderCreatedFact(o, cmd.Email))
	})

	log.Printf("[Order] Order created: %s - %s", o.ID, o.OrderNumber)
	return o, nil
}

// UpdateOrderStatus applies a lifecycle transition. It returns false without
// an error when the order is missing or the transition is not allowed.
func (h *Handler) UpdateOrderStatus(ctx context.Context, cmd UpdateOrderStatus) (bool, error) {
	o, err := h.store.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return false, fmt.Errorf("load order %s: %w", cmd.OrderID, err)
	}
	if o == nil {
		return false, nil
	}

	if !o.Status.CanTransitionTo(cmd.Status) {
		return false, nil
	}

	// Captured before mutation so the fact reports the real previous status.
	oldStatus := o.Status

	now := time.Now().UTC()
	o.Status = cmd.Status
	o.UpdatedAt = &now

	if err := h.store.Update(ctx, o); err != nil {
		return false, fmt.Errorf("persist order %s: %w", cmd.OrderID, err)
	}

	bestEffort("publish OrderStatusChanged", func() error {
		return h.publisher.Publish(ctx, o.ID.String(), fact.FactOrderStatusChanged, fact.OrderStatusChanged{
			OrderID:   o.ID,
			UserID:    o.UserID,
			OldStatus: string(oldStatus),
			NewStatus: string(cmd.Status),
			UpdatedAt: now,
		})
	})

	log.Printf("[Order] Order status updated: %s -> %s", cmd.OrderID, cmd.Status)
	return true, nil
}

// CancelOrder cancels an order for its owner and releases the reserved
// stock. Returns false when the order does not exist for that user, and
// order.ErrOrderNotCancellable when it exists but is past cancellation.
func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) (bool, error) {
	o, err := h.store.FindByIDForUser(ctx, cmd.OrderID, cmd.UserID)
	if err != nil {
		return false, fmt.Errorf("load order %s: %w", cmd.OrderID, err)
	}
	if o == nil {
		return false, nil
	}

	if o.Status != order.StatusPending && o.Status != order.StatusConfirmed {
		return false, order.ErrOrderNotCancellable
	}

	now := time.Now().UTC()
	o.Status = order.StatusCancelled
	o.UpdatedAt = &now

	// Compensation: return the reserved stock. A failed release is logged
	// per line and does not block the cancellation.
	for _, item := range o.Items {
		item := item
		bestEffort(fmt.Sprintf("release stock for product %s", item.ProductID), func() error {
			return h.inventory.AdjustStock(ctx, item.ProductID, item.Quantity)
		})
	}

	if err := h.store.Update(ctx, o); err != nil {
		return false, fmt.Errorf("persist order %s: %w", cmd.OrderID, err)
	}

	log.Printf("[Order] Order cancelled: %s", cmd.OrderID)
	return true, nil
}

func orderCreatedFact(o *order.Order, email string) fact.OrderCreated {
	items := make([]fact.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = fact.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
		}
	}
	return fact.OrderCreated{
		OrderID:     o.ID,
		UserID:      o.UserID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount,
		Email:       email,
		Items:       items,
	}
}
