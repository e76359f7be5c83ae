package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SeedData is a consistent demo data set: master data, a stock snapshot and daily sales.
type SeedData struct {
	Suppliers []domain.Supplier
	Groups    []domain.NotificationGroup
	Stock     []domain.StockRow
	Sales     map[string][]domain.SalesEntry
}

type SeedRepository struct {
	db *DB
}

func NewSeedRepository(db *DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// Seed upserts master data and stock, and replaces daily sales for the seeded dates.
func (r *SeedRepository) Seed(ctx context.Context, data SeedData) error {
	prices := make(map[string]decimal.Decimal, len(data.Stock))
	for _, row := range data.Stock {
		if _, ok := prices[row.ItemID]; !ok {
			prices[row.ItemID] = row.SellingPrice
		}
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, s := range data.Suppliers {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO suppliers (id, name, phone, lead_time_days, active)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					phone = EXCLUDED.phone,
					lead_time_days = EXCLUDED.lead_time_days,
					active = EXCLUDED.active,
					updated_at = NOW()`,
				s.ID, s.Name, s.Phone, s.LeadTimeDays, s.Active); err != nil {
				return fmt.Errorf("seed supplier %s: %w", s.ID, err)
			}
		}

		for _, g := range data.Groups {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO notification_groups (id, name, group_id, enabled, notify_on_order)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO NOTHING`,
				g.ID, g.Name, g.GroupID, g.Enabled, g.NotifyOnOrder); err != nil {
				return fmt.Errorf("seed notification group %s: %w", g.ID, err)
			}
		}

		for _, row := range data.Stock {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO stock_levels (item_id, item_name, store_name, in_stock, cost, selling_price, supplier_id, category_name)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (item_id, store_name) DO UPDATE SET
					item_name = EXCLUDED.item_name,
					in_stock = EXCLUDED.in_stock,
					cost = EXCLUDED.cost,
					selling_price = EXCLUDED.selling_price,
					supplier_id = EXCLUDED.supplier_id,
					category_name = EXCLUDED.category_name,
					updated_at = NOW()`,
				row.ItemID, row.ItemName, row.StoreName, row.InStock, row.Cost, row.SellingPrice,
				row.SupplierID, row.CategoryName); err != nil {
				return fmt.Errorf("seed stock %s/%s: %w", row.ItemID, row.StoreName, err)
			}
		}

		dates := make([]string, 0, len(data.Sales))
		for date := range data.Sales {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		for _, date := range dates {
			if _, err := tx.ExecContext(ctx, `DELETE FROM daily_sales WHERE sale_date = $1`, date); err != nil {
				return fmt.Errorf("clear sales for %s: %w", date, err)
			}
			for _, entry := range data.Sales[date] {
				qty := decimal.NewFromFloat(entry.Quantity).Round(3)
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO daily_sales (sale_date, receipt_id, item_id, quantity, revenue)
					VALUES ($1, $2, $3, $4, $5)`,
					date, fmt.Sprintf("SEED-%s-%s", date, entry.ItemID), entry.ItemID, qty,
					prices[entry.ItemID].Mul(qty).Round(2)); err != nil {
					return fmt.Errorf("seed sales %s/%s: %w", date, entry.ItemID, err)
				}
			}
		}

		return nil
	})
}
