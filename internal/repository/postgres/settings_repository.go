package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) ListSuppliers(ctx context.Context, search string) ([]domain.Supplier, error) {
	query := `
		SELECT id, name, phone, lead_time_days, active, updated_at
		FROM suppliers
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR id ILIKE '%' || $1 || '%')
		ORDER BY name
	`

	var suppliers []domain.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query, strings.TrimSpace(search)); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *SettingsRepository) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `
		SELECT id, name, phone, lead_time_days, active, updated_at
		FROM suppliers
		WHERE id = $1
	`

	var supplier domain.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &supplier, nil
}

func (r *SettingsRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	query := `
		UPDATE suppliers
		SET name = $2, phone = $3, lead_time_days = $4, active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, phone, lead_time_days, active, updated_at
	`

	var updated domain.Supplier
	err := r.db.GetContext(ctx, &updated, query,
		supplier.ID,
		supplier.Name,
		supplier.Phone,
		supplier.LeadTimeDays,
		supplier.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("supplier %s: %w", supplier.ID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	return &updated, nil
}

func (r *SettingsRepository) ListNotificationGroups(ctx context.Context) ([]domain.NotificationGroup, error) {
	query := `
		SELECT id, name, group_id, enabled, notify_on_order, updated_at
		FROM notification_groups
		ORDER BY name
	`

	var groups []domain.NotificationGroup
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("failed to list notification groups: %w", err)
	}

	return groups, nil
}

func (r *SettingsRepository) UpsertNotificationGroup(ctx context.Context, group domain.NotificationGroup) (*domain.NotificationGroup, error) {
	query := `
		INSERT INTO notification_groups (id, name, group_id, enabled, notify_on_order, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			group_id = EXCLUDED.group_id,
			enabled = EXCLUDED.enabled,
			notify_on_order = EXCLUDED.notify_on_order,
			updated_at = NOW()
		RETURNING id, name, group_id, enabled, notify_on_order, updated_at
	`

	var saved domain.NotificationGroup
	if err := r.db.GetContext(ctx, &saved, query,
		group.ID,
		group.Name,
		group.GroupID,
		group.Enabled,
		group.NotifyOnOrder,
	); err != nil {
		return nil, fmt.Errorf("failed to save notification group: %w", err)
	}

	return &saved, nil
}

func (r *SettingsRepository) DeleteNotificationGroup(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notification_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification group: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete notification group: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification group %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
