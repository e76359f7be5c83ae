// Package memory is the in-process mock backend used when the real services are unavailable
// and in tests. It implements every collaborator interface of the planning service.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu sync.RWMutex

	rows      []domain.StockRow
	baseSales map[string]float64
	sales     map[string][]domain.SalesEntry
	suppliers map[string]domain.Supplier
	groups    map[string]domain.NotificationGroup
	buffers   map[string]int

	orders        []domain.OrderRequest
	orderSeq      map[string]int64
	notifications []domain.Notification

	now func() time.Time
}

func New() *Store {
	return &Store{
		baseSales: make(map[string]float64),
		sales:     make(map[string][]domain.SalesEntry),
		suppliers: make(map[string]domain.Supplier),
		groups:    make(map[string]domain.NotificationGroup),
		buffers:   make(map[string]int),
		orderSeq:  make(map[string]int64),
		now:       time.Now,
	}
}

// NewSeeded returns a store with a small catalogue of two suppliers across three stores.
// Sales for any date are generated from a per-item base rate, heavier on weekends.
func NewSeeded() *Store {
	s := New()

	s.suppliers["SUP-01"] = domain.Supplier{ID: "SUP-01", Name: "PT Sumber Makmur", Phone: "0812-1111-2222", LeadTimeDays: 2, Active: true}
	s.suppliers["SUP-02"] = domain.Supplier{ID: "SUP-02", Name: "CV Cahaya Abadi", Phone: "0813-3333-4444", LeadTimeDays: 4, Active: true}

	s.groups["grp-purchasing"] = domain.NotificationGroup{ID: "grp-purchasing", Name: "Purchasing", GroupID: "C0000000000000000000000000000001", Enabled: true, NotifyOnOrder: true}
	s.groups["grp-owners"] = domain.NotificationGroup{ID: "grp-owners", Name: "Owners", GroupID: "C0000000000000000000000000000002", Enabled: true, NotifyOnOrder: false}

	type seedItem struct {
		id, name, supplier, category string
		cost, price                  int64
		stock                        [3]int
		daily                        float64
	}
	stores := [3]string{"Toko Pusat", "Toko Timur", "Toko Barat"}
	items := []seedItem{
		{"SKU-1001", "Beras Premium 5kg", "SUP-01", "Sembako", 62000, 71000, [3]int{24, 10, 6}, 9},
		{"SKU-1002", "Minyak Goreng 2L", "SUP-01", "Sembako", 31000, 36500, [3]int{40, 22, 18}, 14},
		{"SKU-1003", "Gula Pasir 1kg", "SUP-01", "Sembako", 14500, 17000, [3]int{12, 0, 5}, 6},
		{"SKU-2001", "Sabun Mandi 90g", "SUP-02", "Toiletries", 3500, 5000, [3]int{80, 45, 60}, 20},
		{"SKU-2002", "Shampo 170ml", "SUP-02", "Toiletries", 17500, 22000, [3]int{15, 9, 3}, 4.5},
	}

	for _, it := range items {
		supplierName := s.suppliers[it.supplier].Name
		for i, store := range stores {
			s.rows = append(s.rows, domain.StockRow{
				ItemID:       it.id,
				ItemName:     it.name,
				StoreName:    store,
				InStock:      it.stock[i],
				Cost:         decimal.NewFromInt(it.cost),
				SellingPrice: decimal.NewFromInt(it.price),
				SupplierID:   it.supplier,
				SupplierName: supplierName,
				CategoryName: it.category,
			})
		}
		s.baseSales[it.id] = it.daily
	}

	return s
}

// SetStockRows replaces the inventory snapshot.
func (s *Store) SetStockRows(rows []domain.StockRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]domain.StockRow(nil), rows...)
}

// SetSales pins the sales returned for one date, overriding generated sales.
func (s *Store) SetSales(date time.Time, entries []domain.SalesEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[domain.DateKey(date)] = append([]domain.SalesEntry(nil), entries...)
}

func (s *Store) StockRows(ctx context.Context, supplierID string) ([]domain.StockRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	supplierID = strings.TrimSpace(supplierID)
	rows := make([]domain.StockRow, 0, len(s.rows))
	for _, row := range s.rows {
		if supplierID != "" && row.SupplierID != supplierID {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) DailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entries, ok := s.sales[domain.DateKey(date)]; ok {
		return append([]domain.SalesEntry(nil), entries...), nil
	}

	factor := 1.0
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		factor = 1.5
	}

	ids := make([]string, 0, len(s.baseSales))
	for id := range s.baseSales {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]domain.SalesEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, domain.SalesEntry{ItemID: id, Quantity: s.baseSales[id] * factor})
	}
	return entries, nil
}

func (s *Store) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	day := now.Format("20060102")
	s.orderSeq[day]++
	s.orders = append(s.orders, req)

	return &domain.OrderResult{
		PONumber:    fmt.Sprintf("PO-%s-%05d", day, s.orderSeq[day]),
		Status:      domain.OrderStatusReleased,
		TotalAmount: req.TotalAmount,
		CreatedAt:   now,
	}, nil
}

// Orders returns the order requests received so far.
func (s *Store) Orders() []domain.OrderRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OrderRequest(nil), s.orders...)
}

func (s *Store) Send(ctx context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

// Notifications returns the notifications delivered so far.
func (s *Store) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Notification(nil), s.notifications...)
}

func (s *Store) GetBuffers(ctx context.Context, itemIDs []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int)
	for _, id := range itemIDs {
		if buffer, ok := s.buffers[id]; ok {
			out[id] = buffer
		}
	}
	return out, nil
}

func (s *Store) SaveBuffers(ctx context.Context, buffers map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, buffer := range buffers {
		if buffer <= 0 {
			delete(s.buffers, id)
			continue
		}
		s.buffers[id] = buffer
	}
	return nil
}

func (s *Store) ListSuppliers(ctx context.Context, search string) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		if search != "" && !strings.Contains(strings.ToLower(sup.Name), search) && !strings.Contains(strings.ToLower(sup.ID), search) {
			continue
		}
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
	}
	return &sup, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[supplier.ID]; !ok {
		return nil, fmt.Errorf("supplier %s: %w", supplier.ID, domain.ErrNotFound)
	}
	supplier.UpdatedAt = s.now()
	s.suppliers[supplier.ID] = supplier
	return &supplier, nil
}

func (s *Store) ListNotificationGroups(ctx context.Context) ([]domain.NotificationGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.NotificationGroup, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpsertNotificationGroup(ctx context.Context, group domain.NotificationGroup) (*domain.NotificationGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group.UpdatedAt = s.now()
	s.groups[group.ID] = group
	return &group, nil
}

func (s *Store) DeleteNotificationGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return fmt.Errorf("notification group %s: %w", id, domain.ErrNotFound)
	}
	delete(s.groups, id)
	return nil
}

func (s *Store) DailySalesTotals(ctx context.Context, from, to time.Time) ([]domain.DailySalesTotal, error) {
	prices := make(map[string]decimal.Decimal)
	s.mu.RLock()
	for _, row := range s.rows {
		if _, ok := prices[row.ItemID]; !ok {
			prices[row.ItemID] = row.SellingPrice
		}
	}
	s.mu.RUnlock()

	var totals []domain.DailySalesTotal
	for d := domain.CivilDate(from); !d.After(domain.CivilDate(to)); d = d.AddDate(0, 0, 1) {
		entries, err := s.DailySales(ctx, d)
		if err != nil {
			return nil, err
		}

		total := domain.DailySalesTotal{Date: domain.DateKey(d), Revenue: decimal.Zero}
		for _, e := range entries {
			total.Receipts++
			total.Quantity += e.Quantity
			total.Revenue = total.Revenue.Add(prices[e.ItemID].Mul(decimal.NewFromFloat(e.Quantity)))
		}
		totals = append(totals, total)
	}
	return totals, nil
}
