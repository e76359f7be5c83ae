package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one finalized line sent to the order sink.
type OrderLine struct {
	ItemID    string          `json:"item_id" db:"item_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// OrderRequest is the payload accepted by the order sink.
type OrderRequest struct {
	SupplierID   string          `json:"supplier_id"`
	DeliveryDate string          `json:"delivery_date"`
	Items        []OrderLine     `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Note         string          `json:"note,omitempty"`
}

// OrderResult is what the order sink returns for a created purchase order.
type OrderResult struct {
	PONumber    string          `json:"po_number" db:"po_number"`
	Status      string          `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
