package client

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// InventoryClient reads stock rows from the inventory service.
type InventoryClient struct {
	baseClient
}

func NewInventoryClient(baseURL string, timeout time.Duration) (*InventoryClient, error) {
	base, err := newBaseClient(baseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("inventory client: %w", err)
	}
	return &InventoryClient{baseClient: base}, nil
}

func (c *InventoryClient) StockRows(ctx context.Context, supplierID string) ([]domain.StockRow, error) {
	query := url.Values{}
	if id := strings.TrimSpace(supplierID); id != "" {
		query.Set("supplier_id", id)
	}

	payload, err := c.do(ctx, http.MethodGet, "/inventory/stock", query, nil)
	if err != nil {
		return nil, err
	}

	return ParseStockRows(payload)
}

// ParseStockRows normalizes the inventory payload. The service is loose about types: ids may be
// numbers, numeric fields may be strings or null, and supplier_name may be a plain string or a
// nullable wrapper like {"String": "...", "Valid": true}.
func ParseStockRows(payload []byte) ([]domain.StockRow, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("inventory payload is not valid json")
	}

	data := unwrapData(payload)
	if !data.IsArray() {
		return nil, fmt.Errorf("inventory payload: expected an array of rows")
	}

	var rows []domain.StockRow
	for _, r := range data.Array() {
		itemID := strings.TrimSpace(r.Get("item_id").String())
		if itemID == "" {
			continue
		}

		rows = append(rows, domain.StockRow{
			ItemID:       itemID,
			ItemName:     strings.TrimSpace(r.Get("item_name").String()),
			StoreName:    r.Get("store_name").String(),
			InStock:      intValue(r.Get("in_stock")),
			Cost:         decimalValue(r.Get("cost")),
			SellingPrice: decimalValue(r.Get("selling_price")),
			SupplierID:   strings.TrimSpace(r.Get("supplier_id").String()),
			SupplierName: nullableString(r.Get("supplier_name")),
			CategoryName: nullableString(r.Get("category_name")),
		})
	}

	return rows, nil
}

func nullableString(v gjson.Result) string {
	if v.IsObject() {
		if valid := v.Get("Valid"); valid.Exists() && !valid.Bool() {
			return ""
		}
		return strings.TrimSpace(v.Get("String").String())
	}
	if v.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(v.String())
}

func intValue(v gjson.Result) int {
	f := floatValue(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

func floatValue(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Num
	case gjson.String:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Str))
		if err != nil {
			return 0
		}
		return d.InexactFloat64()
	default:
		return 0
	}
}

func decimalValue(v gjson.Result) decimal.Decimal {
	switch v.Type {
	case gjson.Number:
		if d, err := decimal.NewFromString(v.Raw); err == nil {
			return d
		}
		return decimal.NewFromFloat(v.Num)
	case gjson.String:
		if d, err := decimal.NewFromString(strings.TrimSpace(v.Str)); err == nil {
			return d
		}
	}
	return decimal.Zero
}
