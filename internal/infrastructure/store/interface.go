package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/ec-order-service/internal/domain/order"
)

// OrderStoreInterface defines the persistence contract for Order aggregates.
// Lookups return (nil, nil) when no matching order exists; the user-scoped
// lookups treat another user's order exactly like a missing one.
type OrderStoreInterface interface {
	Insert(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*order.Order, error)
	FindByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*order.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error)
	Update(ctx context.Context, o *order.Order) error
}
