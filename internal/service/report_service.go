package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/repository"
)

// MaxReportDays bounds the sales report range, inclusive of both ends.
const MaxReportDays = 92

type ReportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySalesTotal, error) {
	from, to = domain.CivilDate(from), domain.CivilDate(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: from must not be after to", domain.ErrInvalidInput)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > MaxReportDays {
		return nil, fmt.Errorf("%w: range of %d days exceeds %d", domain.ErrInvalidInput, days, MaxReportDays)
	}

	totals, err := s.repo.DailySalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = make([]domain.DailySalesTotal, 0)
	}
	return totals, nil
}
