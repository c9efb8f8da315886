package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/weldmark"
)

// Compile-time interface check
var _ weldmark.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of weldmark.ReportService.
type ReportService struct {
	FindReportByIDFn func(ctx context.Context, id uuid.UUID) (*weldmark.Report, error)
	FindReportsFn    func(ctx context.Context, filter weldmark.ReportFilter) ([]*weldmark.Report, int, error)
	CreateReportFn   func(ctx context.Context, report *weldmark.Report) error
	SaveReportFn     func(ctx context.Context, report *weldmark.Report, expectedVersion int) error
	DeleteReportFn   func(ctx context.Context, id uuid.UUID) error
}

func (s *ReportService) FindReportByID(ctx context.Context, id uuid.UUID) (*weldmark.Report, error) {
	if s.FindReportByIDFn != nil {
		return s.FindReportByIDFn(ctx, id)
	}
	return nil, weldmark.NotFound("Report not found")
}

func (s *ReportService) FindReports(ctx context.Context, filter weldmark.ReportFilter) ([]*weldmark.Report, int, error) {
	if s.FindReportsFn != nil {
		return s.FindReportsFn(ctx, filter)
	}
	return []*weldmark.Report{}, 0, nil
}

func (s *ReportService) CreateReport(ctx context.Context, report *weldmark.Report) error {
	if s.CreateReportFn != nil {
		return s.CreateReportFn(ctx, report)
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return nil
}

func (s *ReportService) SaveReport(ctx context.Context, report *weldmark.Report, expectedVersion int) error {
	if s.SaveReportFn != nil {
		return s.SaveReportFn(ctx, report, expectedVersion)
	}
	return nil
}

func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	if s.DeleteReportFn != nil {
		return s.DeleteReportFn(ctx, id)
	}
	return nil
}
