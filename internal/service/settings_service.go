package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/repository"
)

type SettingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) ListSuppliers(ctx context.Context, search string) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx, strings.TrimSpace(search))
}

func (s *SettingsService) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	return s.repo.GetSupplier(ctx, strings.TrimSpace(id))
}

func (s *SettingsService) UpdateSupplier(ctx context.Context, id string, supplier domain.Supplier) (*domain.Supplier, error) {
	supplier.ID = strings.TrimSpace(id)
	supplier.Name = strings.TrimSpace(supplier.Name)
	supplier.Phone = strings.TrimSpace(supplier.Phone)

	if supplier.ID == "" {
		return nil, fmt.Errorf("%w: supplier id is required", domain.ErrInvalidInput)
	}
	if supplier.Name == "" {
		return nil, fmt.Errorf("%w: supplier name is required", domain.ErrInvalidInput)
	}
	if supplier.LeadTimeDays < 0 {
		return nil, fmt.Errorf("%w: lead time must not be negative", domain.ErrInvalidInput)
	}

	return s.repo.UpdateSupplier(ctx, supplier)
}

func (s *SettingsService) ListNotificationGroups(ctx context.Context) ([]domain.NotificationGroup, error) {
	return s.repo.ListNotificationGroups(ctx)
}

// SaveNotificationGroup creates or replaces a group. GroupID is the messaging platform's opaque id.
func (s *SettingsService) SaveNotificationGroup(ctx context.Context, id string, group domain.NotificationGroup) (*domain.NotificationGroup, error) {
	group.ID = strings.TrimSpace(id)
	group.Name = strings.TrimSpace(group.Name)
	group.GroupID = strings.TrimSpace(group.GroupID)

	if group.ID == "" {
		return nil, fmt.Errorf("%w: group id is required", domain.ErrInvalidInput)
	}
	if group.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if group.GroupID == "" {
		return nil, fmt.Errorf("%w: messaging group id is required", domain.ErrInvalidInput)
	}

	return s.repo.UpsertNotificationGroup(ctx, group)
}

func (s *SettingsService) DeleteNotificationGroup(ctx context.Context, id string) error {
	return s.repo.DeleteNotificationGroup(ctx, strings.TrimSpace(id))
}
