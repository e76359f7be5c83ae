package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return Wrap(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestInventoryRepository_StockRows(t *testing.T) {
	t.Run("filters by supplier", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewInventoryRepository(db)

		rows := sqlmock.NewRows([]string{
			"item_id", "item_name", "store_name", "in_stock", "cost",
			"selling_price", "supplier_id", "supplier_name", "category_name",
		}).
			AddRow("SKU-1", "Sabun", "North", 5, "2500.00", "4000.00", "S1", "PT Sumber", "Beauty").
			AddRow("SKU-1", "Sabun", "South", 7, "2500.00", "4000.00", "S1", "PT Sumber", "Beauty")

		mock.ExpectQuery(`FROM stock_levels sl .* AND sl\.supplier_id = \$1 ORDER BY`).
			WithArgs("S1").
			WillReturnRows(rows)

		result, err := repo.StockRows(context.Background(), " S1 ")

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, 7, result[1].InStock)
		assert.True(t, decimal.NewFromInt(2500).Equal(result[0].Cost))
		assert.Equal(t, "PT Sumber", result[0].SupplierName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lists all suppliers without filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewInventoryRepository(db)

		mock.ExpectQuery(`FROM stock_levels sl`).
			WithArgs().
			WillReturnRows(sqlmock.NewRows([]string{"item_id"}))

		result, err := repo.StockRows(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInventoryRepository_DailySales(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(`FROM daily_sales\s+WHERE sale_date = \$1`).
		WithArgs("2024-01-02").
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "quantity"}).
			AddRow("SKU-1", 4.5).
			AddRow("SKU-2", 1.0))

	entries, err := repo.DailySales(context.Background(), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, []domain.SalesEntry{{ItemID: "SKU-1", Quantity: 4.5}, {ItemID: "SKU-2", Quantity: 1}}, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	repo.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	createdAt := time.Date(2024, 3, 9, 10, 0, 1, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchase_order_counters`).
		WithArgs("2024-03-09").
		WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(int64(42)))
	mock.ExpectQuery(`INSERT INTO purchase_orders`).
		WithArgs("PO-20240309-00042", "S1", "2024-03-10", sqlmock.AnyArg(), domain.OrderStatusReleased, "urgent").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))
	prep := mock.ExpectPrepare(`INSERT INTO purchase_order_items`)
	prep.ExpectExec().WithArgs(int64(7), "SKU-1", 10, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(int64(7), "SKU-2", 20, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.CreateOrder(context.Background(), domain.OrderRequest{
		SupplierID:   "S1",
		DeliveryDate: "2024-03-10",
		Note:         "urgent",
		TotalAmount:  decimal.NewFromInt(65000),
		Items: []domain.OrderLine{
			{ItemID: "SKU-1", Quantity: 10, UnitPrice: decimal.NewFromInt(2500)},
			{ItemID: "SKU-2", Quantity: 20, UnitPrice: decimal.NewFromInt(2000)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "PO-20240309-00042", result.PONumber)
	assert.Equal(t, domain.OrderStatusReleased, result.Status)
	assert.Equal(t, createdAt, result.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateOrderRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchase_order_counters`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.CreateOrder(context.Background(), domain.OrderRequest{SupplierID: "S1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBufferRepository(t *testing.T) {
	t.Run("get returns an empty map without ids", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBufferRepository(db)

		buffers, err := repo.GetBuffers(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, buffers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get maps rows by item", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBufferRepository(db)

		mock.ExpectQuery(`SELECT item_id, buffer FROM item_buffers WHERE item_id = ANY\(\$1\)`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"item_id", "buffer"}).AddRow("SKU-1", 12))

		buffers, err := repo.GetBuffers(context.Background(), []string{"SKU-1", "SKU-2"})

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"SKU-1": 12}, buffers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save upserts positive and clears zero buffers", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBufferRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO item_buffers`).WithArgs("SKU-1", 5).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO item_buffers`).WithArgs("SKU-3", 9).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM item_buffers`).WithArgs(sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveBuffers(context.Background(), map[string]int{"SKU-3": 9, "SKU-2": 0, "SKU-1": 5})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSettingsRepository(t *testing.T) {
	updatedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("get supplier maps no rows to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSettingsRepository(db)

		mock.ExpectQuery(`FROM suppliers\s+WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "lead_time_days", "active", "updated_at"}))

		_, err := repo.GetSupplier(context.Background(), "missing")

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update supplier returns the stored row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSettingsRepository(db)

		mock.ExpectQuery(`UPDATE suppliers`).
			WithArgs("S1", "PT Sumber", "0812", 3, true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "lead_time_days", "active", "updated_at"}).
				AddRow("S1", "PT Sumber", "0812", 3, true, updatedAt))

		supplier, err := repo.UpdateSupplier(context.Background(), domain.Supplier{
			ID: "S1", Name: "PT Sumber", Phone: "0812", LeadTimeDays: 3, Active: true,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, supplier.LeadTimeDays)
		assert.Equal(t, updatedAt, supplier.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete of a missing group is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSettingsRepository(db)

		mock.ExpectExec(`DELETE FROM notification_groups WHERE id = \$1`).
			WithArgs("G9").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteNotificationGroup(context.Background(), "G9")

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_SequenceRestartsEachDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	repo.now = func() time.Time { return day }

	expectOrder := func(date string, seq int64, poNumber string) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO purchase_order_counters \(order_date, last_seq\)`).
			WithArgs(date).
			WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(seq))
		mock.ExpectQuery(`INSERT INTO purchase_orders`).
			WithArgs(poNumber, "S1", "2024-03-11", sqlmock.AnyArg(), domain.OrderStatusReleased, "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(seq, day))
		mock.ExpectPrepare(`INSERT INTO purchase_order_items`)
		mock.ExpectCommit()
	}
	expectOrder("2024-03-09", 7, "PO-20240309-00007")
	expectOrder("2024-03-10", 1, "PO-20240310-00001")

	req := domain.OrderRequest{SupplierID: "S1", DeliveryDate: "2024-03-11"}

	first, err := repo.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "PO-20240309-00007", first.PONumber)

	day = day.Add(2 * time.Minute)
	second, err := repo.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "PO-20240310-00001", second.PONumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	t.Run("applies the embedded schema", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		t.Cleanup(func() { mockDB.Close() })
		db := Wrap(sqlx.NewDb(mockDB, "postgres"))

		mock.ExpectExec(schemaSQL).WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, db.Migrate(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps the database error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS suppliers`).WillReturnError(assert.AnError)

		err := db.Migrate(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to apply schema")
	})

	t.Run("schema declares every table the repositories use", func(t *testing.T) {
		for _, table := range []string{
			"suppliers", "stock_levels", "daily_sales", "purchase_order_counters",
			"purchase_orders", "purchase_order_items", "item_buffers", "notification_groups",
		} {
			assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
		}
	})
}

func TestFormatPONumber(t *testing.T) {
	assert.Equal(t, "PO-20241231-00001", FormatPONumber(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), 1))
}

func TestSeedRepository_Seed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeedRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO suppliers`).WithArgs("S1", "PT Sumber", "", 2, true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notification_groups`).WithArgs("G1", "Purchasing", "C1", true, true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO stock_levels`).WithArgs("SKU-1", "Sabun", "Toko Pusat", 5, sqlmock.AnyArg(), sqlmock.AnyArg(), "S1", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM daily_sales WHERE sale_date = \$1`).WithArgs("2024-05-01").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO daily_sales`).WithArgs("2024-05-01", "SEED-2024-05-01-SKU-1", "SKU-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM daily_sales WHERE sale_date = \$1`).WithArgs("2024-05-02").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Seed(context.Background(), SeedData{
		Suppliers: []domain.Supplier{{ID: "S1", Name: "PT Sumber", LeadTimeDays: 2, Active: true}},
		Groups:    []domain.NotificationGroup{{ID: "G1", Name: "Purchasing", GroupID: "C1", Enabled: true, NotifyOnOrder: true}},
		Stock: []domain.StockRow{{
			ItemID: "SKU-1", ItemName: "Sabun", StoreName: "Toko Pusat", InStock: 5,
			Cost: decimal.NewFromInt(2500), SellingPrice: decimal.NewFromInt(4000), SupplierID: "S1",
		}},
		Sales: map[string][]domain.SalesEntry{
			"2024-05-02": nil,
			"2024-05-01": {{ItemID: "SKU-1", Quantity: 1.5}},
		},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
