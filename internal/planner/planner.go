// Package planner turns per-store stock and daily sales into purchase-order suggestions.
//
// Every function in this package is pure: inputs are never mutated and no I/O is done.
// Callers own the planning state (buffers, order quantities, target date) and pass it in
// on every call.
package planner

import (
	"errors"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

const (
	// DefaultForecastDays is the window length used when none is configured.
	DefaultForecastDays = 5

	// OrderUnit is the case size suggestions are rounded up to.
	OrderUnit = 10
)

var (
	ErrItemNotFound     = errors.New("item not found in plan")
	ErrNegativeQuantity = errors.New("order quantity must not be negative")
)

// BufferPolicy decides what a buffer change does to an item's order quantity.
type BufferPolicy string

const (
	// BufferResyncUnlessOverridden keeps manually edited order quantities on buffer changes.
	BufferResyncUnlessOverridden BufferPolicy = "preserve_manual"
	// BufferResyncAlways overwrites the order quantity with the new suggestion.
	BufferResyncAlways BufferPolicy = "always"
)

// ParseBufferPolicy maps a config value to a policy, defaulting to BufferResyncUnlessOverridden.
func ParseBufferPolicy(value string) BufferPolicy {
	switch BufferPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case BufferResyncAlways:
		return BufferResyncAlways
	default:
		return BufferResyncUnlessOverridden
	}
}

type Options struct {
	ForecastDays int
	BufferPolicy BufferPolicy
}

// Planner carries the configuration the pure planning functions need.
type Planner struct {
	opts Options
}

func New(opts Options) *Planner {
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = DefaultForecastDays
	}
	if opts.BufferPolicy == "" {
		opts.BufferPolicy = BufferResyncUnlessOverridden
	}
	return &Planner{opts: opts}
}

func (p *Planner) ForecastDays() int {
	return p.opts.ForecastDays
}

func (p *Planner) BufferPolicy() BufferPolicy {
	return p.opts.BufferPolicy
}

// Window builds the forecast window for a delivery date. days <= 0 uses the configured length.
func (p *Planner) Window(deliveryDate time.Time, days int) domain.ForecastWindow {
	if days <= 0 {
		days = p.opts.ForecastDays
	}
	return NewForecastWindow(deliveryDate, days)
}

// PlanInput is everything BuildPlan needs. Sales is keyed by ISO date.
type PlanInput struct {
	SupplierID string
	Rows       []domain.StockRow
	Sales      map[string][]domain.SalesEntry
	Window     domain.ForecastWindow
	TargetDate time.Time
	Buffers    map[string]int
}

// BuildPlan aggregates the rows, attaches sales and saved buffers, projects stock over the
// window and fills in suggestions. Order quantities start at the suggestion.
func (p *Planner) BuildPlan(in PlanInput) domain.Plan {
	target := in.TargetDate
	if target.IsZero() {
		target = DefaultTargetDate(in.Window.Start())
	}

	items, stores := Aggregate(in.Rows)
	salesByItem := SalesByItem(in.Sales)

	for i := range items {
		item := &items[i]
		if sales, ok := salesByItem[item.ID]; ok {
			item.DailySales = sales
		}
		if buffer, ok := in.Buffers[item.ID]; ok && buffer > 0 {
			item.Buffer = buffer
		}
		item.ProjectedStock = ProjectStock(*item, in.Window)
		item.SuggestedOrderQuantity = SuggestOrderQuantity(*item, target)
		item.OrderQuantity = item.SuggestedOrderQuantity
	}

	plan := domain.Plan{
		SupplierID:      in.SupplierID,
		Window:          in.Window.Keys(),
		TargetDate:      dateKeyOrEmpty(target),
		DeliveryDate:    dateKeyOrEmpty(in.Window.Start()),
		Items:           items,
		StoreStock:      stores,
		TotalOrderValue: TotalOrderValue(items),
	}
	return plan
}

// ApplyBufferChange sets the buffer of one item and recomputes its suggestion against target.
// Whether the order quantity follows the new suggestion depends on the buffer policy.
func (p *Planner) ApplyBufferChange(items []domain.AggregatedItem, itemID string, buffer int, target time.Time) ([]domain.AggregatedItem, error) {
	out := cloneItems(items)
	if buffer < 0 {
		buffer = 0
	}

	for i := range out {
		if out[i].ID != itemID {
			continue
		}
		item := &out[i]
		item.Buffer = buffer
		item.SuggestedOrderQuantity = SuggestOrderQuantity(*item, target)
		if p.opts.BufferPolicy == BufferResyncAlways || !item.OrderQuantityOverridden {
			item.OrderQuantity = item.SuggestedOrderQuantity
			item.OrderQuantityOverridden = false
		}
		return out, nil
	}

	return out, ErrItemNotFound
}

// ApplyTargetDateChange recomputes every suggestion; order quantities are left alone.
func ApplyTargetDateChange(items []domain.AggregatedItem, target time.Time) []domain.AggregatedItem {
	out := cloneItems(items)
	for i := range out {
		out[i].SuggestedOrderQuantity = SuggestOrderQuantity(out[i], target)
	}
	return out
}

// ApplyAllSuggested copies every suggestion into the order quantity.
func ApplyAllSuggested(items []domain.AggregatedItem) []domain.AggregatedItem {
	out := cloneItems(items)
	for i := range out {
		out[i].OrderQuantity = out[i].SuggestedOrderQuantity
		out[i].OrderQuantityOverridden = false
	}
	return out
}

// SetOrderQuantity records a manual order quantity for one item.
func SetOrderQuantity(items []domain.AggregatedItem, itemID string, quantity int) ([]domain.AggregatedItem, error) {
	if quantity < 0 {
		return cloneItems(items), ErrNegativeQuantity
	}

	out := cloneItems(items)
	for i := range out {
		if out[i].ID == itemID {
			out[i].OrderQuantity = quantity
			out[i].OrderQuantityOverridden = true
			return out, nil
		}
	}
	return out, ErrItemNotFound
}

func cloneItems(items []domain.AggregatedItem) []domain.AggregatedItem {
	out := make([]domain.AggregatedItem, len(items))
	copy(out, items)
	return out
}

func dateKeyOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return domain.DateKey(t)
}
