package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled in its current state")
	ErrUnknownStatus       = errors.New("unknown order status")
)

// InsufficientStockError reports which product could not be reserved.
type InsufficientStockError struct {
	ProductID uuid.UUID
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// InvalidCouponError carries the coupon service's rejection message.
type InvalidCouponError struct {
	Message string
}

func (e *InvalidCouponError) Error() string {
	return "invalid coupon: " + e.Message
}

// validTransitions defines allowed state transitions
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {}, // terminal state
	StatusRefunded:   {}, // terminal state
}

// CanTransitionTo checks if the status can move to the target status.
// Self-transitions and moves out of terminal states are rejected.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// ParseStatus converts a request string into a known Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := validTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

type ShippingAddress struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type PaymentInfo struct {
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// OrderItem is a line snapshotted from the cart at order time. Product name
// and unit price are frozen so later catalog changes do not alter the order.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	OrderNumber     string          `json:"order_number"`
	Status          Status          `json:"status"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Discount        decimal.Decimal `json:"discount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentInfo     PaymentInfo     `json:"payment_info"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}
