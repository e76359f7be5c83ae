package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

// OrderClient creates purchase orders on the order service.
type OrderClient struct {
	baseClient
}

func NewOrderClient(baseURL string, timeout time.Duration) (*OrderClient, error) {
	base, err := newBaseClient(baseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("order client: %w", err)
	}
	return &OrderClient{baseClient: base}, nil
}

func (c *OrderClient) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	payload, err := c.do(ctx, http.MethodPost, "/purchase-orders", nil, req)
	if err != nil {
		return nil, err
	}

	var result domain.OrderResult
	if err := json.Unmarshal([]byte(unwrapData(payload).Raw), &result); err != nil {
		return nil, fmt.Errorf("decode purchase order response: %w", err)
	}
	if result.PONumber == "" {
		return nil, fmt.Errorf("purchase order response has no po_number")
	}
	if result.Status == "" {
		result.Status = domain.OrderStatusReleased
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	return &result, nil
}
