package planner

import (
	"math"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

// ProjectStock returns the stock left at the end of each window date after cumulative sales.
// Missing sales count as zero and the result may be negative (a projected stock-out).
func ProjectStock(item domain.AggregatedItem, window domain.ForecastWindow) map[string]int {
	projected := make(map[string]int, len(window.Dates))
	cumulative := 0.0

	for _, d := range sortedDates(window) {
		key := domain.DateKey(d)
		cumulative += item.DailySales[key]
		projected[key] = int(math.Round(float64(item.CurrentStock) - cumulative))
	}
	return projected
}

// SuggestOrderQuantity rounds the shortfall below the buffer at target up to a whole OrderUnit.
// When target has no projection the nearest projected date is used; targets that are zero or
// before the first projected date yield 0.
func SuggestOrderQuantity(item domain.AggregatedItem, target time.Time) int {
	projected, ok := projectedAt(item.ProjectedStock, target)
	if !ok {
		return 0
	}

	buffer := item.Buffer
	if buffer < 0 {
		buffer = 0
	}

	shortfall := buffer - projected
	if shortfall <= 0 {
		return 0
	}
	return (shortfall + OrderUnit - 1) / OrderUnit * OrderUnit
}

func projectedAt(projected map[string]int, target time.Time) (int, bool) {
	if target.IsZero() || len(projected) == 0 {
		return 0, false
	}

	target = domain.CivilDate(target)
	if v, ok := projected[domain.DateKey(target)]; ok {
		return v, true
	}

	var (
		bestKey  string
		bestDist time.Duration
		earliest time.Time
	)
	for key := range projected {
		d, err := time.Parse(domain.DateLayout, key)
		if err != nil {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}

		dist := d.Sub(target)
		if dist < 0 {
			dist = -dist
		}
		if bestKey == "" || dist < bestDist || (dist == bestDist && key < bestKey) {
			bestKey = key
			bestDist = dist
		}
	}

	if bestKey == "" || target.Before(earliest) {
		return 0, false
	}
	return projected[bestKey], true
}
