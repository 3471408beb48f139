package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/event"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/workflow"
)

type reportStore interface {
	Create(ctx context.Context, rep model.LostReport) error
	FindByID(ctx context.Context, id string) (model.LostReport, error)
	List(ctx context.Context, filter model.LostReportFilter) ([]model.LostReport, model.Meta, error)
	UpdateStatus(ctx context.Context, id string, from model.LostReportStatus, to model.LostReportStatus, at time.Time) error
}

type ReportService struct {
	reports reportStore
	bus     event.Bus
}

func NewReportService(reports reportStore, bus event.Bus) *ReportService {
	return &ReportService{reports: reports, bus: bus}
}

func (s *ReportService) Create(ctx context.Context, studentID string, req model.CreateLostReportRequest) (model.LostReport, error) {
	now := time.Now().UTC()
	report := model.LostReport{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		Campus:       req.Campus,
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
		LostTime:     req.LostTime,
		LostLocation: req.LostLocation,
		Status:       model.ReportPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return model.LostReport{}, err
	}

	publish(s.bus, event.TypeReportCreated, studentID, report)
	return report, nil
}

func (s *ReportService) Get(ctx context.Context, id string) (model.LostReport, error) {
	return s.reports.FindByID(ctx, id)
}

func (s *ReportService) List(ctx context.Context, filter model.LostReportFilter) ([]model.LostReport, model.Meta, error) {
	return s.reports.List(ctx, filter)
}

// ListForStudent scopes the listing to the caller's own reports.
func (s *ReportService) ListForStudent(ctx context.Context, studentID string, filter model.LostReportFilter) ([]model.LostReport, model.Meta, error) {
	filter.StudentID = studentID
	return s.reports.List(ctx, filter)
}

// Review moves a pending report to verified or rejected. The status update
// is conditional on the report still being pending, so concurrent reviews
// cannot both land.
func (s *ReportService) Review(ctx context.Context, staffID string, reportID string, target model.LostReportStatus) (model.LostReport, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return model.LostReport{}, err
	}

	if err := workflow.CheckReport(report.Status, target); err != nil {
		return model.LostReport{}, err
	}

	now := time.Now().UTC()
	if err := s.reports.UpdateStatus(ctx, report.ID, report.Status, target, now); err != nil {
		return model.LostReport{}, err
	}

	report.Status = target
	report.UpdatedAt = now

	publish(s.bus, event.TypeReportReviewed, staffID, report)
	return report, nil
}
