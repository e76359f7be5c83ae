package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type BufferRepository struct {
	db *DB
}

func NewBufferRepository(db *DB) *BufferRepository {
	return &BufferRepository{db: db}
}

type bufferRow struct {
	ItemID string `db:"item_id"`
	Buffer int    `db:"buffer"`
}

func (r *BufferRepository) GetBuffers(ctx context.Context, itemIDs []string) (map[string]int, error) {
	buffers := make(map[string]int)
	if len(itemIDs) == 0 {
		return buffers, nil
	}

	var rows []bufferRow
	query := `SELECT item_id, buffer FROM item_buffers WHERE item_id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(itemIDs)); err != nil {
		return nil, fmt.Errorf("failed to get buffers: %w", err)
	}

	for _, row := range rows {
		buffers[row.ItemID] = row.Buffer
	}
	return buffers, nil
}

// SaveBuffers upserts positive buffers and removes the rows of buffers reset to zero.
func (r *BufferRepository) SaveBuffers(ctx context.Context, buffers map[string]int) error {
	if len(buffers) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		itemIDs := make([]string, 0, len(buffers))
		for itemID := range buffers {
			itemIDs = append(itemIDs, itemID)
		}
		sort.Strings(itemIDs)

		var cleared []string
		for _, itemID := range itemIDs {
			buffer := buffers[itemID]
			if buffer <= 0 {
				cleared = append(cleared, itemID)
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO item_buffers (item_id, buffer, updated_at)
				VALUES ($1, $2, NOW())
				ON CONFLICT (item_id)
				DO UPDATE SET buffer = EXCLUDED.buffer, updated_at = NOW()
			`, itemID, buffer)
			if err != nil {
				return fmt.Errorf("failed to save buffer for %s: %w", itemID, err)
			}
		}

		if len(cleared) > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM item_buffers WHERE item_id = ANY($1)`, pq.Array(cleared)); err != nil {
				return fmt.Errorf("failed to clear buffers: %w", err)
			}
		}
		return nil
	})
}
