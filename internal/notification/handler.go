package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/ec-order-service/internal/email"
	"github.com/example/ec-order-service/internal/fact"
)

// Handler processes facts for sending notifications
type Handler struct {
	emailService *email.Service
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc *email.Service) *Handler {
	return &Handler{
		emailService: emailSvc,
	}
}

// HandleFact processes a raw fact from Kafka
func (h *Handler) HandleFact(ctx context.Context, key, value []byte) error {
	var envelope fact.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		log.Printf("[Notifier] Failed to unmarshal fact: %v", err)
		return err
	}
	return h.HandleEnvelope(ctx, envelope)
}

// HandleEnvelope dispatches a decoded fact envelope. The Lambda path feeds
// envelopes directly; the Kafka path goes through HandleFact.
func (h *Handler) HandleEnvelope(ctx context.Context, envelope fact.Envelope) error {
	// Only process OrderCreated facts
	if envelope.FactType == fact.FactOrderCreated {
		return h.handleOrderCreated(envelope)
	}

	return nil
}

func (h *Handler) handleOrderCreated(envelope fact.Envelope) error {
	var f fact.OrderCreated
	if err := json.Unmarshal(envelope.Data, &f); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderCreated fact: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderCreated fact for order %s, user %s", f.OrderID, f.UserID)

	if f.Email == "" {
		log.Printf("[Notifier] No email on OrderCreated fact for order %s, skipping", f.OrderID)
		return nil
	}

	emailItems := make([]email.OrderItem, len(f.Items))
	for i, item := range f.Items {
		emailItems[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err := h.emailService.SendOrderConfirmation(f.Email, f.OrderNumber, f.TotalAmount, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", f.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", f.Email, f.OrderNumber)
	return nil
}
