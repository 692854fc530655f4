package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uttianguis/internal/model"
)

// ReportRepository defines report persistence operations.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Update(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	// List returns reports newest first, optionally narrowed to one status.
	List(ctx context.Context, status *model.ReportStatus) ([]model.Report, error)
	Recent(ctx context.Context, limit int) ([]model.Report, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.withParties(r.db.WithContext(ctx)).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, status *model.ReportStatus) ([]model.Report, error) {
	q := r.withParties(r.db.WithContext(ctx)).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var reports []model.Report
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) Recent(ctx context.Context, limit int) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) withParties(q *gorm.DB) *gorm.DB {
	return q.Preload("Reporter").Preload("ReportedUser").Preload("ReportedProduct")
}
