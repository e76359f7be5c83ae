package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/cache"
	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/planner"
	"github.com/andresuchdata/retail-backoffice/internal/repository"
	"github.com/andresuchdata/retail-backoffice/internal/storage"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 15 * time.Second

type SubmitOrderRequest struct {
	SupplierID   string                  `json:"supplier_id"`
	DeliveryDate string                  `json:"delivery_date"`
	Items        []domain.AggregatedItem `json:"items"`
	Note         string                  `json:"note"`
}

type OrderService struct {
	sink     repository.OrderSink
	notifier repository.NotificationSink
	settings repository.SettingsRepository
	archive  storage.OrderArchive
	cache    cache.PlanCache

	wg sync.WaitGroup
}

func NewOrderService(
	sink repository.OrderSink,
	notifier repository.NotificationSink,
	settings repository.SettingsRepository,
	archive storage.OrderArchive,
	cacheImpl cache.PlanCache,
) *OrderService {
	if archive == nil {
		archive = storage.NewNoopOrderArchive()
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	return &OrderService{
		sink:     sink,
		notifier: notifier,
		settings: settings,
		archive:  archive,
		cache:    cacheImpl,
	}
}

// Submit sends the positive-quantity lines to the order sink. Archiving, cache invalidation
// and the group notification happen after the order exists and never fail the submission.
func (s *OrderService) Submit(ctx context.Context, req SubmitOrderRequest) (*domain.OrderResult, error) {
	supplierID := strings.TrimSpace(req.SupplierID)
	if supplierID == "" {
		return nil, fmt.Errorf("%w: supplier_id is required", domain.ErrInvalidInput)
	}

	delivery, err := domain.ParseDate(req.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("delivery_date: %w", err)
	}

	lines := planner.OrderLines(req.Items)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no items with a positive order quantity", domain.ErrInvalidInput)
	}

	order := domain.OrderRequest{
		SupplierID:   supplierID,
		DeliveryDate: domain.DateKey(delivery),
		Items:        lines,
		TotalAmount:  planner.TotalOrderValue(req.Items),
		Note:         strings.TrimSpace(req.Note),
	}

	result, err := s.sink.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("create purchase order: order sink returned no result")
	}

	log.Info().
		Str("po_number", result.PONumber).
		Str("supplier_id", supplierID).
		Int("lines", len(lines)).
		Str("total", order.TotalAmount.String()).
		Msg("purchase order created")

	if err := s.archive.Archive(ctx, order, *result); err != nil {
		log.Warn().Err(err).Str("po_number", result.PONumber).Msg("order: archive failed")
	}
	if err := s.cache.InvalidateStock(ctx, supplierID); err != nil {
		log.Warn().Err(err).Msg("order: cache invalidate failed")
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.notify(order, *result)
	}()

	return result, nil
}

// Wait blocks until pending notifications are done.
func (s *OrderService) Wait() {
	s.wg.Wait()
}

func (s *OrderService) notify(order domain.OrderRequest, result domain.OrderResult) {
	if s.notifier == nil || s.settings == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	groups, err := s.settings.ListNotificationGroups(ctx)
	if err != nil {
		log.Warn().Err(err).Str("po_number", result.PONumber).Msg("order: notification groups unavailable")
		return
	}

	var groupIDs []string
	for _, g := range groups {
		if g.Enabled && g.NotifyOnOrder && g.GroupID != "" {
			groupIDs = append(groupIDs, g.GroupID)
		}
	}
	if len(groupIDs) == 0 {
		return
	}

	supplierName := order.SupplierID
	if supplier, err := s.settings.GetSupplier(ctx, order.SupplierID); err == nil && supplier.Name != "" {
		supplierName = supplier.Name
	}

	msg := domain.Notification{
		Message:  OrderMessage(supplierName, order, result),
		Note:     order.Note,
		GroupIDs: groupIDs,
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Str("po_number", result.PONumber).Msg("order: notification failed")
	}
}

// OrderMessage renders the group notification for a created purchase order.
func OrderMessage(supplierName string, order domain.OrderRequest, result domain.OrderResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Purchase order %s created\n", result.PONumber)
	fmt.Fprintf(&b, "Status: %s\n", domain.OrderStatusLabel(result.Status))
	fmt.Fprintf(&b, "Supplier: %s\n", supplierName)
	fmt.Fprintf(&b, "Delivery: %s\n", order.DeliveryDate)
	fmt.Fprintf(&b, "Items: %d\n", len(order.Items))
	fmt.Fprintf(&b, "Total: %s", order.TotalAmount.StringFixed(2))
	return b.String()
}
