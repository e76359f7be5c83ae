package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

const orderArchivePrefix = "purchase-orders"

// ArchivedOrder is the JSON document written for every submitted purchase order.
type ArchivedOrder struct {
	Request domain.OrderRequest `json:"request"`
	Result  domain.OrderResult  `json:"result"`
}

// OrderArchive stores submitted orders as objects keyed by creation month and PO number.
type OrderArchive interface {
	Archive(ctx context.Context, req domain.OrderRequest, result domain.OrderResult) error
	List(ctx context.Context, month time.Time) ([]string, error)
	Get(ctx context.Context, createdAt time.Time, poNumber string) (*ArchivedOrder, error)
}

type objectOrderArchive struct {
	store ObjectStorage
}

type noopOrderArchive struct{}

func NewOrderArchive(store ObjectStorage) OrderArchive {
	if store == nil {
		return &noopOrderArchive{}
	}
	return &objectOrderArchive{store: store}
}

func NewNoopOrderArchive() OrderArchive {
	return &noopOrderArchive{}
}

func (a *objectOrderArchive) Archive(ctx context.Context, req domain.OrderRequest, result domain.OrderResult) error {
	payload, err := json.Marshal(ArchivedOrder{Request: req, Result: result})
	if err != nil {
		return fmt.Errorf("encode archived order: %w", err)
	}
	return a.store.UploadObject(ctx, OrderKey(result.CreatedAt, result.PONumber), payload)
}

func (a *objectOrderArchive) List(ctx context.Context, month time.Time) ([]string, error) {
	objects, err := a.store.ListObjects(ctx, monthPrefix(month))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (a *objectOrderArchive) Get(ctx context.Context, createdAt time.Time, poNumber string) (*ArchivedOrder, error) {
	payload, err := a.store.GetObject(ctx, OrderKey(createdAt, poNumber))
	if err != nil {
		return nil, err
	}

	var order ArchivedOrder
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("decode archived order %s: %w", poNumber, err)
	}
	return &order, nil
}

func (n *noopOrderArchive) Archive(ctx context.Context, req domain.OrderRequest, result domain.OrderResult) error {
	return nil
}

func (n *noopOrderArchive) List(ctx context.Context, month time.Time) ([]string, error) {
	return nil, nil
}

func (n *noopOrderArchive) Get(ctx context.Context, createdAt time.Time, poNumber string) (*ArchivedOrder, error) {
	return nil, fmt.Errorf("archived order %s: %w", poNumber, domain.ErrNotFound)
}

// OrderKey is purchase-orders/YYYY/MM/<po>.json, using the UTC creation time.
func OrderKey(createdAt time.Time, poNumber string) string {
	return fmt.Sprintf("%s%s.json", monthPrefix(createdAt), poNumber)
}

func monthPrefix(t time.Time) string {
	return fmt.Sprintf("%s/%s/", orderArchivePrefix, t.UTC().Format("2006/01"))
}
