package planner

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

// NewForecastWindow returns days consecutive dates starting at deliveryDate.
func NewForecastWindow(deliveryDate time.Time, days int) domain.ForecastWindow {
	if deliveryDate.IsZero() {
		return domain.ForecastWindow{}
	}
	if days <= 0 {
		days = DefaultForecastDays
	}

	start := domain.CivilDate(deliveryDate)
	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return domain.ForecastWindow{Dates: dates}
}

// DefaultTargetDate is the day after delivery.
func DefaultTargetDate(deliveryDate time.Time) time.Time {
	if deliveryDate.IsZero() {
		return time.Time{}
	}
	return domain.CivilDate(deliveryDate).AddDate(0, 0, 1)
}

// SalesByItem turns per-date sales lists into per-item date->quantity maps.
// Duplicate entries for the same item and date are summed.
func SalesByItem(sales map[string][]domain.SalesEntry) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for date, entries := range sales {
		for _, entry := range entries {
			if entry.ItemID == "" || math.IsNaN(entry.Quantity) || math.IsInf(entry.Quantity, 0) {
				continue
			}
			if out[entry.ItemID] == nil {
				out[entry.ItemID] = make(map[string]float64)
			}
			out[entry.ItemID][date] += entry.Quantity
		}
	}
	return out
}

func sortedDates(window domain.ForecastWindow) []time.Time {
	dates := make([]time.Time, len(window.Dates))
	copy(dates, window.Dates)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
