package main

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/cache"
	"github.com/andresuchdata/retail-backoffice/internal/client"
	"github.com/andresuchdata/retail-backoffice/internal/config"
	"github.com/andresuchdata/retail-backoffice/internal/repository"
	"github.com/andresuchdata/retail-backoffice/internal/repository/postgres"
	"github.com/andresuchdata/retail-backoffice/internal/source"
	"github.com/andresuchdata/retail-backoffice/internal/storage"
	"github.com/andresuchdata/retail-backoffice/internal/store/memory"
	"github.com/rs/zerolog/log"
)

// backend is the set of collaborators selected by configuration.
type backend struct {
	name string

	inventory repository.InventorySource
	sales     repository.SalesHistorySource
	orders    repository.OrderSink
	notifier  repository.NotificationSink
	buffers   repository.BufferRepository
	settings  repository.SettingsRepository
	reports   repository.ReportRepository

	cache   cache.PlanCache
	archive storage.OrderArchive

	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

func newBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{
		cache:   newPlanCache(cfg.Cache),
		archive: newOrderArchive(ctx, cfg.Storage),
	}

	if cfg.Backend.UseMockBackend {
		store := memory.NewSeeded()
		b.name = "mock"
		b.inventory, b.orders, b.notifier = store, store, store
		b.buffers, b.settings, b.reports = store, store, store
		b.sales = source.NewWeekdayEstimator(store, cfg.Planner.SalesLookbackWeeks)
		return b, nil
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := b.attachDB(db, cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// attachDB wires the collaborators that need the database. On error the backend, db included,
// is closed before returning.
func (b *backend) attachDB(db *postgres.DB, cfg *config.Config) (err error) {
	b.closers = append(b.closers, func() { _ = db.Close() })
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	settings := postgres.NewSettingsRepository(db)
	b.buffers = postgres.NewBufferRepository(db)
	b.settings = settings

	timeout := time.Duration(cfg.Backend.RequestTimeoutSeconds) * time.Second
	var history repository.SalesHistorySource

	switch cfg.Backend.Source {
	case config.SourcePostgres:
		inventory := postgres.NewInventoryRepository(db)
		b.name = config.SourcePostgres
		b.inventory = inventory
		history = inventory
		b.reports = inventory
		b.orders = postgres.NewOrderRepository(db)
	case config.SourceHTTP:
		urls := cfg.Backend.BaseURLs
		inventory, err := client.NewInventoryClient(urls.Inventory, timeout)
		if err != nil {
			return err
		}
		sales, err := client.NewSalesClient(urls.Sales, timeout)
		if err != nil {
			return err
		}
		orders, err := client.NewOrderClient(urls.Orders, timeout)
		if err != nil {
			return err
		}
		b.name = config.SourceHTTP
		b.inventory = inventory
		history = sales
		b.orders = orders
		b.reports = postgres.NewInventoryRepository(db)
	default:
		return fmt.Errorf("unknown backend source %q", cfg.Backend.Source)
	}

	b.sales = source.NewWeekdayEstimator(history, cfg.Planner.SalesLookbackWeeks)

	if cfg.Backend.BaseURLs.Notifications != "" {
		notifier, err := client.NewNotificationClient(cfg.Backend.BaseURLs.Notifications, timeout)
		if err != nil {
			return err
		}
		b.notifier = notifier
	} else {
		log.Warn().Msg("NOTIFICATIONS_BASE_URL is not set, order notifications are disabled")
	}

	return nil
}

func newPlanCache(cfg config.CacheConfig) cache.PlanCache {
	c, err := cache.NewPlanCache(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, plan cache disabled")
		return cache.NewNoopPlanCache()
	}
	return c
}

func newOrderArchive(ctx context.Context, cfg config.StorageConfig) storage.OrderArchive {
	if !cfg.Enabled {
		return storage.NewNoopOrderArchive()
	}

	client, err := storage.NewMinioClient(ctx, storage.MinioConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("object storage unavailable, order archive disabled")
		return storage.NewNoopOrderArchive()
	}
	return storage.NewOrderArchive(client)
}
