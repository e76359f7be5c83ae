package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

// InventorySource supplies per-store stock rows. An empty supplierID means all suppliers.
type InventorySource interface {
	StockRows(ctx context.Context, supplierID string) ([]domain.StockRow, error)
}

// SalesHistorySource supplies actual or estimated sales for one date.
type SalesHistorySource interface {
	DailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, error)
}

// OrderSink creates purchase orders and returns the generated PO number.
type OrderSink interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error)
}

// NotificationSink delivers a message to messaging groups.
type NotificationSink interface {
	Send(ctx context.Context, n domain.Notification) error
}

type BufferRepository interface {
	GetBuffers(ctx context.Context, itemIDs []string) (map[string]int, error)
	SaveBuffers(ctx context.Context, buffers map[string]int) error
}

type SettingsRepository interface {
	ListSuppliers(ctx context.Context, search string) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)

	ListNotificationGroups(ctx context.Context) ([]domain.NotificationGroup, error)
	UpsertNotificationGroup(ctx context.Context, group domain.NotificationGroup) (*domain.NotificationGroup, error)
	DeleteNotificationGroup(ctx context.Context, id string) error
}

type ReportRepository interface {
	DailySalesTotals(ctx context.Context, from, to time.Time) ([]domain.DailySalesTotal, error)
}
