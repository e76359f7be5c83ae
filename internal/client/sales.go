package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/tidwall/gjson"
)

// SalesClient reads one day of per-item sales from the sales service.
type SalesClient struct {
	baseClient
}

func NewSalesClient(baseURL string, timeout time.Duration) (*SalesClient, error) {
	base, err := newBaseClient(baseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("sales client: %w", err)
	}
	return &SalesClient{baseClient: base}, nil
}

func (c *SalesClient) DailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, error) {
	query := url.Values{}
	query.Set("date", domain.DateKey(date))

	payload, err := c.do(ctx, http.MethodGet, "/sales/daily", query, nil)
	if err != nil {
		return nil, err
	}

	data := unwrapData(payload)
	if !data.IsArray() {
		return nil, fmt.Errorf("sales payload for %s: expected an array", domain.DateKey(date))
	}

	var entries []domain.SalesEntry
	data.ForEach(func(_, r gjson.Result) bool {
		itemID := strings.TrimSpace(r.Get("item_id").String())
		if itemID != "" {
			entries = append(entries, domain.SalesEntry{ItemID: itemID, Quantity: floatValue(r.Get("quantity"))})
		}
		return true
	})

	return entries, nil
}
