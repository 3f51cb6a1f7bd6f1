package command

import (
	"github.com/google/uuid"

	"github.com/example/ec-order-service/internal/domain/order"
)

// CreateOrder places an order from the user's current cart.
// Email is carried into the OrderCreated fact for the notifier.
type CreateOrder struct {
	UserID          uuid.UUID
	Email           string
	ShippingAddress order.ShippingAddress
	PaymentMethod   string
	CouponCode      string
}

// UpdateOrderStatus moves an order to a new lifecycle status.
// Administrative: not scoped to the owning user.
type UpdateOrderStatus struct {
	OrderID uuid.UUID
	Status  order.Status
}

// CancelOrder cancels an order on behalf of its owner.
type CancelOrder struct {
	OrderID uuid.UUID
	UserID  uuid.UUID
}
