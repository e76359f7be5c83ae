package planner

import (
	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

// TotalOrderValue sums quantity x unit price over items with a positive order quantity.
func TotalOrderValue(items []domain.AggregatedItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.OrderQuantity <= 0 {
			continue
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.OrderQuantity))))
	}
	return total
}

// OrderLines returns the positive-quantity lines of items, in item order.
func OrderLines(items []domain.AggregatedItem) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		if item.OrderQuantity <= 0 {
			continue
		}
		lines = append(lines, domain.OrderLine{
			ItemID:    item.ID,
			Quantity:  item.OrderQuantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lines
}
