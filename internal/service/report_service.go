package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"uttianguis/internal/auth"
	"uttianguis/internal/config"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
	"uttianguis/internal/storage"
	"uttianguis/internal/telemetry"
)

const maxSubjectLength = 100

// ReportInput is a complaint against exactly one user or one product.
type ReportInput struct {
	ReportedUserID    *uuid.UUID
	ReportedProductID *uuid.UUID
	Subject           string
	Description       string
	Screenshot        []byte
}

// ReportService implements the report side of the moderation workflow.
type ReportService interface {
	Create(ctx context.Context, actor auth.Identity, in ReportInput) (*model.Report, error)
	List(ctx context.Context, status string) ([]model.Report, error)
	Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Report, error)
	Resolve(ctx context.Context, actor auth.Identity, id uuid.UUID, resolution string) (*model.Report, error)
	Dismiss(ctx context.Context, actor auth.Identity, id uuid.UUID, reason string) (*model.Report, error)
}

type reportService struct {
	reports   repository.ReportRepository
	users     repository.UserRepository
	products  repository.ProductRepository
	store     storage.Store
	notifier  Notifier
	validator *ListingValidator
	policy    config.Policy
	now       func() time.Time
}

// NewReportService builds a ReportService.
func NewReportService(
	reports repository.ReportRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	store storage.Store,
	notifier Notifier,
	validator *ListingValidator,
	policy config.Policy,
) ReportService {
	return &reportService{
		reports:   reports,
		users:     users,
		products:  products,
		store:     store,
		notifier:  notifier,
		validator: validator,
		policy:    policy,
		now:       time.Now,
	}
}

// Create files a pending report. Exactly one target must be given and the
// screenshot must be an image.
func (s *reportService) Create(ctx context.Context, actor auth.Identity, in ReportInput) (*model.Report, error) {
	if (in.ReportedUserID == nil) == (in.ReportedProductID == nil) {
		return nil, apperrors.Validation("exactly one of reportedUserId or reportedProductId must be set")
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" || utf8.RuneCountInString(subject) > maxSubjectLength {
		return nil, apperrors.Validation(fmt.Sprintf("subject must be between 1 and %d characters", maxSubjectLength))
	}
	if len(in.Screenshot) == 0 {
		return nil, apperrors.Validation("screenshot is required")
	}
	obj, err := storage.NewImageObject(storage.FolderReports, in.Screenshot)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, actor.UserID); err != nil {
		return nil, notFoundOr(err, "reporter")
	}
	if in.ReportedUserID != nil {
		if _, err := s.users.FindByID(ctx, *in.ReportedUserID); err != nil {
			return nil, notFoundOr(err, "reported user")
		}
	}
	if in.ReportedProductID != nil {
		if _, err := s.products.FindByID(ctx, *in.ReportedProductID); err != nil {
			return nil, notFoundOr(err, "reported product")
		}
	}

	url, err := s.store.Save(ctx, obj)
	if err != nil {
		return nil, fmt.Errorf("store screenshot: %w", err)
	}

	report := &model.Report{
		ReporterID:        actor.UserID,
		ReportedUserID:    in.ReportedUserID,
		ReportedProductID: in.ReportedProductID,
		Subject:           subject,
		Description:       strings.TrimSpace(in.Description),
		ScreenshotURL:     url,
		Status:            model.ReportPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if derr := s.store.Delete(ctx, url); derr != nil {
			log.WithError(derr).WithField("url", url).Warn("failed to remove orphaned screenshot")
		}
		return nil, fmt.Errorf("create report: %w", err)
	}
	log.WithFields(log.Fields{"report_id": report.ID, "reporter_id": actor.UserID}).Info("report filed")
	return report, nil
}

// List returns every report, optionally narrowed to one status.
func (s *reportService) List(ctx context.Context, status string) ([]model.Report, error) {
	var filter *model.ReportStatus
	if status != "" {
		st, ok := model.ParseReportStatus(status)
		if !ok {
			return nil, apperrors.Validation("status must be Pending, Resolved or Rejected")
		}
		filter = &st
	}
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Get is allowed to admins and to the reporter.
func (s *reportService) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Report, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(report.ReporterID) {
		return nil, apperrors.ErrNotOwner
	}
	return report, nil
}

func (s *reportService) Resolve(ctx context.Context, actor auth.Identity, id uuid.UUID, resolution string) (*model.Report, error) {
	return s.decide(ctx, actor, id, resolution, "resolve")
}

func (s *reportService) Dismiss(ctx context.Context, actor auth.Identity, id uuid.UUID, reason string) (*model.Report, error) {
	return s.decide(ctx, actor, id, reason, "dismiss")
}

func (s *reportService) decide(ctx context.Context, actor auth.Identity, id uuid.UUID, text, action string) (*model.Report, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientRole
	}
	text = strings.TrimSpace(text)
	field := "resolution"
	if action == "dismiss" {
		field = "reason"
	}
	if err := s.validator.ValidateReason(field, text); err != nil {
		return nil, err
	}

	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var content string
	switch action {
	case "resolve":
		err = report.Resolve(actor.UserID, s.now(), text, s.policy.StrictTransitions)
		content = "Tu reporte ha sido resuelto: " + text
	default:
		err = report.Dismiss(actor.UserID, s.now(), text, s.policy.StrictTransitions)
		content = "Tu reporte ha sido desestimado: " + text
	}
	if err != nil {
		return nil, err
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, fmt.Errorf("%s report: %w", action, err)
	}
	telemetry.ModerationTransitionsTotal.WithLabelValues("report", action).Inc()
	log.WithFields(log.Fields{"report_id": id, "admin_id": actor.UserID, "status": report.Status}).Info("report decided")

	s.notifier.Notify(ctx, report.ReporterID, model.NotificationReportUpdate, content, &report.ID)
	return report, nil
}

func (s *reportService) load(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "report")
	}
	return report, nil
}
