package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the shopping cart service's representation of a user's cart.
type Cart struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url"`
}

// CartClient talks to the shopping cart service.
type CartClient interface {
	// GetCart returns the user's cart, or nil when the user has none.
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// ClearCart empties the user's cart. Safe to call on an absent cart.
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type HTTPCartClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCartClient(baseURL string) *HTTPCartClient {
	return &HTTPCartClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPCartClient) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	url := fmt.Sprintf("%s/api/cart?userId=%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart service returned %d", resp.StatusCode)
	}

	var cart Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("cart service: decode: %w", err)
	}
	return &cart, nil
}

func (c *HTTPCartClient) ClearCart(ctx context.Context, userID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/cart?userId=%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cart service: %w", err)
	}
	defer resp.Body.Close()

	// Clearing an already-empty cart is fine.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("cart service returned %d", resp.StatusCode)
	}
	return nil
}
