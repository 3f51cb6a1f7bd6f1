package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrStockRejected is returned when the product service refuses a stock
// adjustment; for a negative delta that means insufficient stock.
var ErrStockRejected = errors.New("stock adjustment rejected")

// InventoryClient adjusts product stock in the product service.
// A negative delta reserves stock, a positive delta releases it.
type InventoryClient interface {
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error
}

type HTTPInventoryClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPInventoryClient(baseURL string) *HTTPInventoryClient {
	return &HTTPInventoryClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPInventoryClient) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	body, err := json.Marshal(map[string]int{"quantity": delta})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/products/%s/stock", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("product service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: product %s (status %d)", ErrStockRejected, productID, resp.StatusCode)
	}
	return nil
}
