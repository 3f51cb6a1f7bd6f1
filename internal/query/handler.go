package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/ec-order-service/internal/domain/order"
	"github.com/example/ec-order-service/internal/infrastructure/store"
)

// Handler serves the read side of the order API. Every lookup is scoped to
// the requesting user, so an order id guessed by another user behaves
// exactly like a missing one. Store failures propagate to the caller;
// absence is reported as a nil order with no error.
type Handler struct {
	store store.OrderStoreInterface
}

func NewHandler(orderStore store.OrderStoreInterface) *Handler {
	return &Handler{store: orderStore}
}

func (h *Handler) GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*order.Order, error) {
	o, err := h.store.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

func (h *Handler) GetOrderByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*order.Order, error) {
	o, err := h.store.FindByNumberForUser(ctx, orderNumber, userID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderNumber, err)
	}
	return o, nil
}

// ListOrdersForUser returns the user's orders, newest first.
func (h *Handler) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	orders, err := h.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID, err)
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	return orders, nil
}
