package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXInventory serves stock rows from the first sheet of a spreadsheet export.
type XLSXInventory struct {
	path string
}

func NewXLSXInventory(path string) *XLSXInventory {
	return &XLSXInventory{path: path}
}

func (x *XLSXInventory) StockRows(ctx context.Context, supplierID string) ([]domain.StockRow, error) {
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", x.path, err)
	}
	defer f.Close()

	return readStockSheet(f, strings.TrimSpace(supplierID))
}

func readStockSheet(f *excelize.File, supplierID string) ([]domain.StockRow, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Error()
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of sheet %s: %w", sheet, err)
	}

	colIndex := func(names ...string) int {
		targets := make(map[string]struct{}, len(names))
		for _, name := range names {
			targets[normalizeColumnName(name)] = struct{}{}
		}
		for i, h := range header {
			if _, ok := targets[normalizeColumnName(h)]; ok {
				return i
			}
		}
		return -1
	}

	idxItemID := colIndex("item_id", "sku")
	idxItemName := colIndex("item_name", "nama", "product name")
	idxStore := colIndex("store_name", "store", "toko")
	idxStock := colIndex("in_stock", "stock", "stok")
	idxCost := colIndex("cost", "hpp")
	idxPrice := colIndex("selling_price", "harga", "price")
	idxSupplierID := colIndex("supplier_id")
	idxSupplierName := colIndex("supplier_name", "supplier")
	idxCategory := colIndex("category_name", "category", "kategori")

	if idxItemID < 0 {
		return nil, fmt.Errorf("sheet %s has no item id column", sheet)
	}

	var out []domain.StockRow
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}

		get := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		itemID := get(idxItemID)
		if itemID == "" {
			continue
		}
		rowSupplier := get(idxSupplierID)
		if supplierID != "" && rowSupplier != supplierID {
			continue
		}

		out = append(out, domain.StockRow{
			ItemID:       itemID,
			ItemName:     get(idxItemName),
			StoreName:    get(idxStore),
			InStock:      parseInt(get(idxStock)),
			Cost:         parseDecimal(get(idxCost)),
			SellingPrice: parseDecimal(get(idxPrice)),
			SupplierID:   rowSupplier,
			SupplierName: get(idxSupplierName),
			CategoryName: get(idxCategory),
		})
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}

	return out, nil
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

func parseInt(v string) int {
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parseDecimal(v string) decimal.Decimal {
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
