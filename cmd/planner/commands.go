package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/cache"
	"github.com/andresuchdata/retail-backoffice/internal/client"
	"github.com/andresuchdata/retail-backoffice/internal/config"
	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/planner"
	"github.com/andresuchdata/retail-backoffice/internal/repository"
	"github.com/andresuchdata/retail-backoffice/internal/repository/postgres"
	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/andresuchdata/retail-backoffice/internal/source"
	"github.com/andresuchdata/retail-backoffice/internal/store/memory"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const sourceMock = "mock"

func openDB(c *cli.Context, cfg *config.Config) (*postgres.DB, error) {
	if url := strings.TrimSpace(c.String("db-url")); url != "" {
		return postgres.Connect(url)
	}
	return postgres.NewDB(&cfg.Database)
}

func runPlan(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context

	delivery, err := domain.ParseDate(c.String("delivery-date"))
	if err != nil {
		return fmt.Errorf("delivery-date: %w", err)
	}
	var target time.Time
	if raw := c.String("target-date"); raw != "" {
		if target, err = domain.ParseDate(raw); err != nil {
			return fmt.Errorf("target-date: %w", err)
		}
	}

	var (
		inventory repository.InventorySource
		history   repository.SalesHistorySource
		buffers   repository.BufferRepository
	)

	timeout := time.Duration(cfg.Backend.RequestTimeoutSeconds) * time.Second
	switch src := strings.ToLower(c.String("source")); src {
	case sourceMock:
		store := memory.NewSeeded()
		inventory, history, buffers = store, store, store
	case config.SourcePostgres:
		db, err := openDB(c, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := postgres.NewInventoryRepository(db)
		inventory, history, buffers = repo, repo, postgres.NewBufferRepository(db)
	case config.SourceHTTP:
		inv, err := client.NewInventoryClient(cfg.Backend.BaseURLs.Inventory, timeout)
		if err != nil {
			return err
		}
		sales, err := client.NewSalesClient(cfg.Backend.BaseURLs.Sales, timeout)
		if err != nil {
			return err
		}
		inventory, history = inv, sales
	default:
		return fmt.Errorf("unknown source %q", src)
	}

	if file := c.String("inventory-file"); file != "" {
		inventory = source.NewXLSXInventory(file)
	}

	p := planner.New(planner.Options{
		ForecastDays: cfg.Planner.ForecastDays,
		BufferPolicy: planner.ParseBufferPolicy(cfg.Planner.BufferPolicy),
	})
	svc := service.NewPlannerService(p, inventory, source.NewWeekdayEstimator(history, cfg.Planner.SalesLookbackWeeks), buffers, nil)

	plan, err := svc.BuildPlan(ctx, service.PlanRequest{
		SupplierID:   c.String("supplier"),
		DeliveryDate: delivery,
		TargetDate:   target,
		Days:         c.Int("days"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

func runMigrate(c *cli.Context, cfg *config.Config) error {
	db, err := openDB(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(c.Context); err != nil {
		return err
	}

	log.Info().Msg("schema applied")
	return nil
}

func runSeed(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context
	db, err := openDB(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := demoSeedData(ctx, memory.NewSeeded(), time.Now(), c.Int("days"))
	if err != nil {
		return err
	}

	if err := seedDatabase(ctx, postgres.NewSeedRepository(db), openPlanCache(cfg.Cache), data); err != nil {
		return err
	}

	log.Info().
		Int("suppliers", len(data.Suppliers)).
		Int("stock_rows", len(data.Stock)).
		Int("sales_days", len(data.Sales)).
		Msg("demo data seeded")
	return nil
}

type seeder interface {
	Seed(ctx context.Context, data postgres.SeedData) error
}

// seedDatabase loads data and then drops cached plan inputs, which still describe the stock and
// sales from before the reload.
func seedDatabase(ctx context.Context, s seeder, planCache cache.PlanCache, data postgres.SeedData) error {
	if err := s.Seed(ctx, data); err != nil {
		return err
	}
	if err := planCache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("seed: plan cache not cleared, cached inputs expire with their TTL")
	}
	return nil
}

func openPlanCache(cfg config.CacheConfig) cache.PlanCache {
	c, err := cache.NewPlanCache(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("seed: redis unavailable, skipping plan cache invalidation")
		return cache.NewNoopPlanCache()
	}
	return c
}

// demoSeedData reads the seeded in-memory backend, generating sales for the days before today.
func demoSeedData(ctx context.Context, store *memory.Store, today time.Time, days int) (postgres.SeedData, error) {
	suppliers, err := store.ListSuppliers(ctx, "")
	if err != nil {
		return postgres.SeedData{}, err
	}
	groups, err := store.ListNotificationGroups(ctx)
	if err != nil {
		return postgres.SeedData{}, err
	}
	stock, err := store.StockRows(ctx, "")
	if err != nil {
		return postgres.SeedData{}, err
	}

	sales := make(map[string][]domain.SalesEntry, days)
	start := domain.CivilDate(today)
	for i := 1; i <= days; i++ {
		d := start.AddDate(0, 0, -i)
		entries, err := store.DailySales(ctx, d)
		if err != nil {
			return postgres.SeedData{}, err
		}
		sales[domain.DateKey(d)] = entries
	}

	return postgres.SeedData{Suppliers: suppliers, Groups: groups, Stock: stock, Sales: sales}, nil
}
