package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

// InventoryRepository reads stock rows and daily sales straight from the back-office database.
type InventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) StockRows(ctx context.Context, supplierID string) ([]domain.StockRow, error) {
	query := `
		SELECT
			sl.item_id,
			COALESCE(sl.item_name, '') AS item_name,
			sl.store_name,
			GREATEST(COALESCE(sl.in_stock, 0), 0) AS in_stock,
			COALESCE(sl.cost, 0) AS cost,
			COALESCE(sl.selling_price, 0) AS selling_price,
			COALESCE(sl.supplier_id, '') AS supplier_id,
			COALESCE(s.name, '') AS supplier_name,
			COALESCE(sl.category_name, '') AS category_name
		FROM stock_levels sl
		LEFT JOIN suppliers s ON s.id = sl.supplier_id
		WHERE sl.item_id <> ''
	`

	filterClause, args := buildSupplierFilterClause(supplierID, "sl.", 1)
	query += filterClause + " ORDER BY sl.item_id, sl.store_name"

	var rows []domain.StockRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list stock rows: %w", err)
	}

	return rows, nil
}

func (r *InventoryRepository) DailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, error) {
	query := `
		SELECT item_id, COALESCE(SUM(quantity), 0) AS quantity
		FROM daily_sales
		WHERE sale_date = $1
		GROUP BY item_id
		ORDER BY item_id
	`

	var entries []domain.SalesEntry
	if err := r.db.SelectContext(ctx, &entries, query, domain.DateKey(date)); err != nil {
		return nil, fmt.Errorf("failed to get daily sales for %s: %w", domain.DateKey(date), err)
	}

	return entries, nil
}

func (r *InventoryRepository) DailySalesTotals(ctx context.Context, from, to time.Time) ([]domain.DailySalesTotal, error) {
	query := `
		SELECT
			TO_CHAR(sale_date, 'YYYY-MM-DD') AS date,
			COUNT(DISTINCT receipt_id) AS receipts,
			COALESCE(SUM(quantity), 0) AS quantity,
			COALESCE(SUM(revenue), 0) AS revenue
		FROM daily_sales
		WHERE sale_date BETWEEN $1 AND $2
		GROUP BY sale_date
		ORDER BY sale_date
	`

	var totals []domain.DailySalesTotal
	if err := r.db.SelectContext(ctx, &totals, query, domain.DateKey(from), domain.DateKey(to)); err != nil {
		return nil, fmt.Errorf("failed to get daily sales totals: %w", err)
	}

	return totals, nil
}

// buildSupplierFilterClause restricts a query to one supplier when supplierID is set.
func buildSupplierFilterClause(supplierID, alias string, startIndex int) (string, []interface{}) {
	supplierID = strings.TrimSpace(supplierID)
	if supplierID == "" {
		return "", nil
	}

	return fmt.Sprintf(" AND %ssupplier_id = $%d", alias, startIndex), []interface{}{supplierID}
}
