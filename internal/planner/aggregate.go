package planner

import (
	"strings"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

// UnknownStore is the key used in the store map for rows without a store name.
const UnknownStore = "unknown"

// Aggregate groups stock rows by item id, summing stock across stores.
// Rows without an item id are skipped; negative stock counts as zero.
// Items keep the order in which they were first seen.
func Aggregate(rows []domain.StockRow) ([]domain.AggregatedItem, domain.StoreStockMap) {
	items := make([]domain.AggregatedItem, 0)
	index := make(map[string]int)
	stores := make(domain.StoreStockMap)

	for _, row := range rows {
		id := strings.TrimSpace(row.ItemID)
		if id == "" {
			continue
		}

		stock := row.InStock
		if stock < 0 {
			stock = 0
		}

		i, ok := index[id]
		if !ok {
			i = len(items)
			index[id] = i
			items = append(items, domain.AggregatedItem{
				ID:             id,
				DailySales:     map[string]float64{},
				ProjectedStock: map[string]int{},
			})
		}

		item := &items[i]
		item.CurrentStock += stock
		fillMetadata(item, row)

		if stores[id] == nil {
			stores[id] = make(map[string]int)
		}
		stores[id][NormalizeStoreName(row.StoreName)] += stock
	}

	return items, stores
}

// NormalizeStoreName lower-cases a store name and collapses its whitespace.
func NormalizeStoreName(name string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if normalized == "" {
		return UnknownStore
	}
	return normalized
}

func fillMetadata(item *domain.AggregatedItem, row domain.StockRow) {
	if item.Name == "" {
		item.Name = strings.TrimSpace(row.ItemName)
	}
	if item.SupplierID == "" {
		item.SupplierID = strings.TrimSpace(row.SupplierID)
	}
	if item.SupplierName == "" {
		item.SupplierName = strings.TrimSpace(row.SupplierName)
	}
	if item.CategoryName == "" {
		item.CategoryName = strings.TrimSpace(row.CategoryName)
	}
	if item.UnitPrice.IsZero() && row.Cost.IsPositive() {
		item.UnitPrice = row.Cost
	}
	if item.SellingPrice.IsZero() && row.SellingPrice.IsPositive() {
		item.SellingPrice = row.SellingPrice
	}
}
