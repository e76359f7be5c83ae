package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRow is one (item, store) stock line as delivered by an inventory source.
type StockRow struct {
	ItemID       string          `json:"item_id" db:"item_id"`
	ItemName     string          `json:"item_name" db:"item_name"`
	StoreName    string          `json:"store_name" db:"store_name"`
	InStock      int             `json:"in_stock" db:"in_stock"`
	Cost         decimal.Decimal `json:"cost" db:"cost"`
	SellingPrice decimal.Decimal `json:"selling_price" db:"selling_price"`
	SupplierID   string          `json:"supplier_id" db:"supplier_id"`
	SupplierName string          `json:"supplier_name" db:"supplier_name"`
	CategoryName string          `json:"category_name" db:"category_name"`
}

// SalesEntry is the quantity sold (or estimated) for an item on one date.
type SalesEntry struct {
	ItemID   string  `json:"item_id" db:"item_id"`
	Quantity float64 `json:"quantity" db:"quantity"`
}

// AggregatedItem is the per-item planning row built from all store rows of an item.
type AggregatedItem struct {
	ID                      string             `json:"id"`
	Name                    string             `json:"name"`
	SupplierID              string             `json:"supplier_id"`
	SupplierName            string             `json:"supplier_name"`
	CategoryName            string             `json:"category_name"`
	UnitPrice               decimal.Decimal    `json:"unit_price"`
	SellingPrice            decimal.Decimal    `json:"selling_price"`
	CurrentStock            int                `json:"current_stock"`
	Buffer                  int                `json:"buffer"`
	DailySales              map[string]float64 `json:"daily_sales"`
	ProjectedStock          map[string]int     `json:"projected_stock"`
	SuggestedOrderQuantity  int                `json:"suggested_order_quantity"`
	OrderQuantity           int                `json:"order_quantity"`
	OrderQuantityOverridden bool               `json:"order_quantity_overridden"`
}

// StoreStockMap maps item id -> normalized store name -> stock.
type StoreStockMap map[string]map[string]int

// Plan is a full purchase-order plan for one supplier and delivery date.
type Plan struct {
	SupplierID      string           `json:"supplier_id"`
	DeliveryDate    string           `json:"delivery_date"`
	TargetDate      string           `json:"target_date"`
	Window          []string         `json:"window"`
	Items           []AggregatedItem `json:"items"`
	StoreStock      StoreStockMap    `json:"store_stock"`
	TotalOrderValue decimal.Decimal  `json:"total_order_value"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// Supplier holds the per-supplier settings maintained from the back office.
type Supplier struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	LeadTimeDays int       `json:"lead_time_days" db:"lead_time_days"`
	Active       bool      `json:"active" db:"active"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DailySalesTotal is one row of the receipts/sales report.
type DailySalesTotal struct {
	Date     string          `json:"date" db:"date"`
	Receipts int             `json:"receipts" db:"receipts"`
	Quantity float64         `json:"quantity" db:"quantity"`
	Revenue  decimal.Decimal `json:"revenue" db:"revenue"`
}

// ForecastWindow is an ordered run of consecutive civil dates starting at the delivery date.
type ForecastWindow struct {
	Dates []time.Time
}

// Keys returns the ISO keys of the window dates in order.
func (w ForecastWindow) Keys() []string {
	keys := make([]string, len(w.Dates))
	for i, d := range w.Dates {
		keys[i] = DateKey(d)
	}
	return keys
}

// Start returns the first date of the window, or the zero time for an empty window.
func (w ForecastWindow) Start() time.Time {
	if len(w.Dates) == 0 {
		return time.Time{}
	}
	return w.Dates[0]
}
