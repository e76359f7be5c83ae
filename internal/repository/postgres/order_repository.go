package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/jmoiron/sqlx"
)

type OrderRepository struct {
	db  *DB
	now func() time.Time
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db, now: time.Now}
}

// nextPOSeq bumps the counter of the order day; the row lock serializes concurrent orders.
const nextPOSeq = `
	INSERT INTO purchase_order_counters (order_date, last_seq)
	VALUES ($1, 1)
	ON CONFLICT (order_date) DO UPDATE SET last_seq = purchase_order_counters.last_seq + 1
	RETURNING last_seq
`

// FormatPONumber renders the purchase-order number for a sequence value.
func FormatPONumber(at time.Time, seq int64) string {
	return fmt.Sprintf("PO-%s-%05d", at.Format("20060102"), seq)
}

func (r *OrderRepository) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	var result *domain.OrderResult

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := r.now()

		var seq int64
		if err := tx.QueryRowxContext(ctx, nextPOSeq, now.Format("2006-01-02")).Scan(&seq); err != nil {
			return fmt.Errorf("failed to allocate po number: %w", err)
		}

		poNumber := FormatPONumber(now, seq)

		var (
			orderID   int64
			createdAt time.Time
		)
		insertOrder := `
			INSERT INTO purchase_orders (po_number, supplier_id, delivery_date, total_amount, status, note)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(ctx, insertOrder,
			poNumber,
			req.SupplierID,
			req.DeliveryDate,
			req.TotalAmount,
			domain.OrderStatusReleased,
			req.Note,
		).Scan(&orderID, &createdAt); err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO purchase_order_items (purchase_order_id, item_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, line := range req.Items {
			if _, err := stmt.ExecContext(ctx, orderID, line.ItemID, line.Quantity, line.UnitPrice); err != nil {
				return fmt.Errorf("failed to insert purchase order item %s: %w", line.ItemID, err)
			}
		}

		result = &domain.OrderResult{
			PONumber:    poNumber,
			Status:      domain.OrderStatusReleased,
			TotalAmount: req.TotalAmount,
			CreatedAt:   createdAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
