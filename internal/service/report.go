package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/export"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/report"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/security"
)

type CreateReportInput struct {
	Title string
	Type  domain.ReportType
	Range domain.DateRange
}

type reportService struct {
	Deps
}

func NewReportService(deps Deps) ReportService {
	return &reportService{Deps: deps}
}

// Generate computes report data without storing it.
func (s *reportService) Generate(ctx context.Context, actor *domain.User, kind domain.ReportType, r domain.DateRange) (json.RawMessage, error) {
	if err := s.Policy.Authorize(actor, security.CapManageReports); err != nil {
		return nil, err
	}
	if err := requireSpan(r); err != nil {
		return nil, err
	}
	return s.generate(ctx, kind, r)
}

// requireSpan rejects request windows whose end is not after their start.
// Scheduled snapshots cover a single day and skip this check.
func requireSpan(r domain.DateRange) error {
	if !domain.Day(r.End).After(domain.Day(r.Start)) {
		return domain.NewValidationError("end_date", "The end date must be a date after start date.")
	}
	return nil
}

func (s *reportService) generate(ctx context.Context, kind domain.ReportType, r domain.DateRange) (json.RawMessage, error) {
	logger.EnterMethod("reportService.generate", "type", kind, "start", r.Start.Format(domain.DateLayout), "end", r.End.Format(domain.DateLayout))

	if !kind.IsValid() {
		return nil, domain.NewValidationError("type", "The selected type is invalid.")
	}
	if r.End.Before(r.Start) {
		return nil, domain.NewValidationError("end_date", "The end date must be a date after start date.")
	}

	var snap report.Snapshot
	var err error
	switch kind {
	case domain.ReportRevenue:
		snap.Bookings, err = s.Repos.Bookings.ListStartingBetween(ctx, r, domain.RevenueStatuses)
	case domain.ReportUtilization:
		if snap.Vehicles, err = s.Repos.Vehicles.ListAll(ctx); err == nil {
			snap.Bookings, err = s.Repos.Bookings.ListStartingBetween(ctx, r, domain.RevenueStatuses)
		}
	case domain.ReportBookingTrends:
		snap.Bookings, err = s.Repos.Bookings.ListCreatedBetween(ctx, r)
	}
	if err != nil {
		logger.ExitMethodWithError("reportService.generate", err)
		return nil, err
	}

	data, err := report.Generate(kind, snap, r)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("reportService.generate", "bookings", len(snap.Bookings))
	return data, nil
}

// Create generates and stores a titled report.
func (s *reportService) Create(ctx context.Context, actor *domain.User, in CreateReportInput) (*domain.Report, error) {
	if err := s.Policy.Authorize(actor, security.CapManageReports); err != nil {
		return nil, err
	}
	if err := requireSpan(in.Range); err != nil {
		return nil, err
	}
	data, err := s.generate(ctx, in.Type, in.Range)
	if err != nil {
		return nil, err
	}

	rp := &domain.Report{
		Title:         strings.TrimSpace(in.Title),
		Type:          in.Type,
		StartDate:     domain.Day(in.Range.Start),
		EndDate:       domain.Day(in.Range.End),
		Data:          data,
		GeneratedBy:   actor.ID,
		GeneratorName: actor.Name,
		CreatedAt:     s.now(),
	}
	err = s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		if err := repos.Reports.Create(ctx, rp); err != nil {
			return nil, err
		}
		return []domain.Event{
			activity(actor, domain.ActionCreated, domain.EntityReport, rp.ID, "Generated report: "+rp.Title, rp.CreatedAt),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return rp, nil
}

func (s *reportService) List(ctx context.Context, actor *domain.User, filter domain.ReportFilter, page domain.Page) (domain.PageResult[domain.Report], error) {
	if err := s.Policy.Authorize(actor, security.CapManageReports); err != nil {
		return domain.PageResult[domain.Report]{}, err
	}
	reports, total, err := s.Repos.Reports.List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[domain.Report]{}, err
	}
	return domain.NewPageResult(reports, total, page), nil
}

func (s *reportService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Report, error) {
	if err := s.Policy.Authorize(actor, security.CapManageReports); err != nil {
		return nil, err
	}
	return s.Repos.Reports.GetByID(ctx, id)
}

func (s *reportService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := s.Policy.Authorize(actor, security.CapManageReports); err != nil {
		return err
	}
	now := s.now()
	return s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		rp, err := repos.Reports.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := repos.Reports.Delete(ctx, id); err != nil {
			return nil, err
		}
		return []domain.Event{
			activity(actor, domain.ActionDeleted, domain.EntityReport, id, "Deleted report: "+rp.Title, now),
		}, nil
	})
}

func (s *reportService) Export(ctx context.Context, actor *domain.User, id int64) ([]byte, string, error) {
	rp, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	data, err := export.ReportWorkbook(rp)
	if err != nil {
		return nil, "", err
	}
	return data, export.Filename(rp), nil
}

// Snapshot stores the revenue report for day. It is written directly rather
// than through Create because no request user is involved.
func (s *reportService) Snapshot(ctx context.Context, ownerID int64, day time.Time) (*domain.Report, error) {
	d := domain.Day(day)
	r := domain.DateRange{Start: d, End: d}
	data, err := s.generate(ctx, domain.ReportRevenue, r)
	if err != nil {
		return nil, err
	}
	rp := &domain.Report{
		Title:       "Daily revenue " + d.Format(domain.DateLayout),
		Type:        domain.ReportRevenue,
		StartDate:   d,
		EndDate:     d,
		Data:        data,
		GeneratedBy: ownerID,
		CreatedAt:   s.now(),
	}
	if err := s.Repos.Reports.Create(ctx, rp); err != nil {
		return nil, err
	}
	return rp, nil
}
