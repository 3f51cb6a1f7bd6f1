package fact

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FactOrderCreated       = "OrderCreated"
	FactOrderStatusChanged = "OrderStatusChanged"
)

// Envelope wraps a fact payload for the bus. Consumers dispatch on FactType
// and unmarshal Data into the matching payload struct.
type Envelope struct {
	ID         string          `json:"id"`
	FactType   string          `json:"fact_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope wraps a payload into an Envelope ready for publishing.
func NewEnvelope(factType string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:         uuid.New().String(),
		FactType:   factType,
		OccurredAt: time.Now(),
		Data:       data,
	}, nil
}

// Publisher emits facts for downstream consumers. Delivery guarantees are the
// transport's concern; callers treat publishing as fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, key, factType string, payload any) error
}

type OrderItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type OrderCreated struct {
	OrderID     uuid.UUID       `json:"order_id"`
	UserID      uuid.UUID       `json:"user_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Email       string          `json:"email"`
	Items       []OrderItem     `json:"items"`
}

type OrderStatusChanged struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	UpdatedAt time.Time `json:"updated_at"`
}
