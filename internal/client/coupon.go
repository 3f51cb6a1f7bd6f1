package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponValidation is the coupon service's verdict on a code.
type CouponValidation struct {
	IsValid        bool            `json:"is_valid"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Message        string          `json:"message"`
	CouponID       *uuid.UUID      `json:"coupon_id,omitempty"`
}

// CouponClient talks to the coupon service.
type CouponClient interface {
	Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*CouponValidation, error)
	// MarkUsed consumes the coupon. Best-effort from the caller's viewpoint.
	MarkUsed(ctx context.Context, couponID uuid.UUID) error
}

type HTTPCouponClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCouponClient(baseURL string) *HTTPCouponClient {
	return &HTTPCouponClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPCouponClient) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*CouponValidation, error) {
	body, err := json.Marshal(map[string]any{
		"code":         code,
		"order_amount": orderAmount,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/coupons/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// The coupon service being unreachable makes the code unusable,
		// not the whole request an outage.
		return &CouponValidation{IsValid: false, Message: "coupon validation failed"}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &CouponValidation{IsValid: false, Message: "coupon validation failed"}, nil
	}

	var validation CouponValidation
	if err := json.NewDecoder(resp.Body).Decode(&validation); err != nil {
		return nil, fmt.Errorf("coupon service: decode: %w", err)
	}
	return &validation, nil
}

func (c *HTTPCouponClient) MarkUsed(ctx context.Context, couponID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/coupons/%s/use", c.baseURL, couponID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("coupon service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("coupon service returned %d", resp.StatusCode)
	}
	return nil
}
