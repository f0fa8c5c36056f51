package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService tallies orders into daily sales reports
type ReportService struct {
	db       *gorm.DB
	archiver ReportArchiver
	now      func() time.Time
}

// NewReportService creates a report service. archiver may be nil.
func NewReportService(db *gorm.DB, archiver ReportArchiver) *ReportService {
	return &ReportService{db: db, archiver: archiver, now: time.Now}
}

// WithClock replaces the time source that decides what "today" is
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// DayBounds returns local midnight of t's day and of the following day
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// GenerateDailyReport counts today's orders, sums their value and stores a new
// Report row. Every call inserts a row, even when one exists for the day.
func (s *ReportService) GenerateDailyReport(ctx context.Context) (*models.Report, error) {
	start, end := DayBounds(s.now().Local())

	var report models.Report
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		err := tx.Preload("Product").
			Where("order_date >= ? AND order_date < ?", start, end).
			Find(&orders).Error
		if err != nil {
			return fmt.Errorf("failed to load orders for %s: %w", start.Format(time.DateOnly), err)
		}

		total := decimal.Zero
		for _, order := range orders {
			total = total.Add(order.Total())
		}

		report = models.Report{
			ReportDate:  start,
			TotalOrders: int64(len(orders)),
			TotalSales:  total.Round(2),
		}
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.archive(ctx, &report)
	return &report, nil
}

// archive copies the report to the archiver. Failures are logged only.
func (s *ReportService) archive(ctx context.Context, report *models.Report) {
	if s.archiver == nil {
		return
	}

	key, err := s.archiver.ArchiveReport(ctx, report)
	if err != nil {
		logger.Warn(ctx, "Failed to archive report", zap.Uint("report_id", report.ID), zap.Error(err))
		return
	}

	if err := s.db.WithContext(ctx).Model(report).Update("archive_key", key).Error; err != nil {
		logger.Warn(ctx, "Failed to record report archive key", zap.Uint("report_id", report.ID), zap.Error(err))
		return
	}
	report.ArchiveKey = &key
}

// RecentReports returns up to limit reports, newest first
func (s *ReportService) RecentReports(ctx context.Context, limit int) ([]models.Report, error) {
	var reports []models.Report
	if err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
