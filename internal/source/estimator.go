// Package source holds inventory and sales sources that sit in front of the backends.
package source

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/repository"
)

const DefaultLookbackWeeks = 4

// WeekdayEstimator wraps a sales history. Past dates pass through; today and future dates are
// estimated as the mean of the same weekday over the last lookback weeks.
type WeekdayEstimator struct {
	history       repository.SalesHistorySource
	lookbackWeeks int
	now           func() time.Time
}

func NewWeekdayEstimator(history repository.SalesHistorySource, lookbackWeeks int) *WeekdayEstimator {
	if lookbackWeeks <= 0 {
		lookbackWeeks = DefaultLookbackWeeks
	}
	return &WeekdayEstimator{history: history, lookbackWeeks: lookbackWeeks, now: time.Now}
}

func (e *WeekdayEstimator) DailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, error) {
	day := domain.CivilDate(date)
	today := domain.CivilDate(e.now())
	if day.Before(today) {
		return e.history.DailySales(ctx, day)
	}

	return e.estimate(ctx, day, today)
}

func (e *WeekdayEstimator) estimate(ctx context.Context, day, today time.Time) ([]domain.SalesEntry, error) {
	ref := day.AddDate(0, 0, -7)
	for !ref.Before(today) {
		ref = ref.AddDate(0, 0, -7)
	}

	totals := make(map[string]float64)
	for week := 0; week < e.lookbackWeeks; week++ {
		d := ref.AddDate(0, 0, -7*week)
		entries, err := e.history.DailySales(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("sales history for %s: %w", domain.DateKey(d), err)
		}
		for _, entry := range entries {
			totals[entry.ItemID] += entry.Quantity
		}
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.SalesEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.SalesEntry{ItemID: id, Quantity: totals[id] / float64(e.lookbackWeeks)})
	}
	return out, nil
}
