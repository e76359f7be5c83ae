package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/cache"
	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/planner"
	"github.com/andresuchdata/retail-backoffice/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const sourceFetchLimit = 4

type PlanRequest struct {
	SupplierID   string
	DeliveryDate time.Time
	TargetDate   time.Time
	Days         int
}

// PlanItems is the result of an edit on a plan: the new item list and its order value.
type PlanItems struct {
	Items           []domain.AggregatedItem `json:"items"`
	TotalOrderValue decimal.Decimal         `json:"total_order_value"`
}

type PlannerService struct {
	planner   *planner.Planner
	inventory repository.InventorySource
	sales     repository.SalesHistorySource
	buffers   repository.BufferRepository
	cache     cache.PlanCache
}

func NewPlannerService(
	p *planner.Planner,
	inventory repository.InventorySource,
	sales repository.SalesHistorySource,
	buffers repository.BufferRepository,
	cacheImpl cache.PlanCache,
) *PlannerService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	return &PlannerService{
		planner:   p,
		inventory: inventory,
		sales:     sales,
		buffers:   buffers,
		cache:     cacheImpl,
	}
}

// BuildPlan loads stock and window sales concurrently and builds the plan. A failing source
// contributes empty data and a warning instead of failing the plan.
func (s *PlannerService) BuildPlan(ctx context.Context, req PlanRequest) (*domain.Plan, error) {
	if req.DeliveryDate.IsZero() {
		return nil, fmt.Errorf("%w: delivery date is required", domain.ErrInvalidInput)
	}
	if req.Days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", domain.ErrInvalidInput)
	}

	window := s.planner.Window(domain.CivilDate(req.DeliveryDate), req.Days)

	var (
		mu       sync.Mutex
		rows     []domain.StockRow
		sales    = make(map[string][]domain.SalesEntry, len(window.Dates))
		warnings []string
	)
	warn := func(msg string) {
		mu.Lock()
		warnings = append(warnings, msg)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(sourceFetchLimit)

	g.Go(func() error {
		result, err := s.stockRows(ctx, req.SupplierID)
		if err != nil {
			log.Warn().Err(err).Str("supplier_id", req.SupplierID).Msg("planner: inventory unavailable, using empty stock")
			warn("inventory unavailable: " + err.Error())
			return nil
		}
		mu.Lock()
		rows = result
		mu.Unlock()
		return nil
	})

	for _, d := range window.Dates {
		d := d
		g.Go(func() error {
			entries, err := s.dailySales(ctx, d)
			key := domain.DateKey(d)
			if err != nil {
				log.Warn().Err(err).Str("date", key).Msg("planner: sales unavailable, using no sales")
				warn(fmt.Sprintf("sales unavailable for %s: %s", key, err.Error()))
				entries = nil
			}
			mu.Lock()
			sales[key] = entries
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buffers, err := s.loadBuffers(ctx, rows)
	if err != nil {
		log.Warn().Err(err).Msg("planner: saved buffers unavailable")
		warnings = append(warnings, "saved buffers unavailable: "+err.Error())
	}

	target := req.TargetDate
	if !target.IsZero() {
		target = domain.CivilDate(target)
	}

	plan := s.planner.BuildPlan(planner.PlanInput{
		SupplierID: req.SupplierID,
		Rows:       rows,
		Sales:      sales,
		Window:     window,
		TargetDate: target,
		Buffers:    buffers,
	})

	sort.Strings(warnings)
	plan.Warnings = warnings

	return &plan, nil
}

func (s *PlannerService) stockRows(ctx context.Context, supplierID string) ([]domain.StockRow, error) {
	if rows, ok, err := s.cache.GetStockRows(ctx, supplierID); err == nil && ok {
		return rows, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("planner: cache get stock rows failed")
	}

	rows, err := s.inventory.StockRows(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetStockRows(ctx, supplierID, rows); err != nil {
		log.Warn().Err(err).Msg("planner: cache set stock rows failed")
	}
	return rows, nil
}

func (s *PlannerService) dailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, error) {
	if entries, ok, err := s.cache.GetDailySales(ctx, date); err == nil && ok {
		return entries, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("planner: cache get daily sales failed")
	}

	entries, err := s.sales.DailySales(ctx, date)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetDailySales(ctx, date, entries); err != nil {
		log.Warn().Err(err).Msg("planner: cache set daily sales failed")
	}
	return entries, nil
}

func (s *PlannerService) loadBuffers(ctx context.Context, rows []domain.StockRow) (map[string]int, error) {
	if s.buffers == nil || len(rows) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ItemID]; ok {
			continue
		}
		seen[row.ItemID] = struct{}{}
		ids = append(ids, row.ItemID)
	}

	return s.buffers.GetBuffers(ctx, ids)
}

func (s *PlannerService) ApplyBuffer(items []domain.AggregatedItem, itemID string, buffer int, target time.Time) (*PlanItems, error) {
	if buffer < 0 {
		return nil, fmt.Errorf("%w: buffer must not be negative", domain.ErrInvalidInput)
	}
	updated, err := s.planner.ApplyBufferChange(items, itemID, buffer, target)
	if err != nil {
		return nil, err
	}
	return newPlanItems(updated), nil
}

func (s *PlannerService) ApplyTargetDate(items []domain.AggregatedItem, target time.Time) *PlanItems {
	return newPlanItems(planner.ApplyTargetDateChange(items, target))
}

func (s *PlannerService) ApplyAllSuggested(items []domain.AggregatedItem) *PlanItems {
	return newPlanItems(planner.ApplyAllSuggested(items))
}

func (s *PlannerService) SetOrderQuantity(items []domain.AggregatedItem, itemID string, quantity int) (*PlanItems, error) {
	updated, err := planner.SetOrderQuantity(items, itemID, quantity)
	if err != nil {
		return nil, err
	}
	return newPlanItems(updated), nil
}

// SaveBuffers persists every item's buffer; a zero buffer clears the saved value.
func (s *PlannerService) SaveBuffers(ctx context.Context, items []domain.AggregatedItem) error {
	if s.buffers == nil {
		return fmt.Errorf("buffer storage is not configured")
	}

	buffers := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		buffers[item.ID] = item.Buffer
	}
	if len(buffers) == 0 {
		return nil
	}

	return s.buffers.SaveBuffers(ctx, buffers)
}

func newPlanItems(items []domain.AggregatedItem) *PlanItems {
	return &PlanItems{Items: items, TotalOrderValue: planner.TotalOrderValue(items)}
}
