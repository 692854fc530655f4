package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"uttianguis/internal/model"
)

// NamedCount is one bucket of a grouped count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count" gorm:"column:total"`
}

// ProductCounts summarises the catalog.
type ProductCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Sold   int64 `json:"sold"`
}

// StatsRepository runs the aggregate queries behind the admin dashboard.
type StatsRepository interface {
	CountUsers(ctx context.Context) (total, active int64, err error)
	CountProducts(ctx context.Context) (ProductCounts, error)
	CountReportsByStatus(ctx context.Context) (map[model.ReportStatus]int64, error)
	ProductsByCategory(ctx context.Context) ([]NamedCount, error)
	ReportsBySubject(ctx context.Context) ([]NamedCount, error)
	UserSignupsSince(ctx context.Context, since time.Time) ([]time.Time, error)
	ProductsCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	// ProductsSoldSince uses the last update of sold products as the sale time.
	ProductsSoldSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository builds a GORM-backed repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountUsers(ctx context.Context) (int64, int64, error) {
	var total, active int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (r *statsRepository) CountProducts(ctx context.Context) (ProductCounts, error) {
	var counts ProductCounts
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = ? AND is_sold = ?", true, false).
		Count(&counts.Active).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_sold = ?", true).
		Count(&counts.Sold).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (r *statsRepository) CountReportsByStatus(ctx context.Context) (map[model.ReportStatus]int64, error) {
	var rows []NamedCount
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Select("status AS name, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[model.ReportStatus]int64{
		model.ReportPending:  0,
		model.ReportResolved: 0,
		model.ReportRejected: 0,
	}
	for _, row := range rows {
		out[model.ReportStatus(row.Name)] = row.Count
	}
	return out, nil
}

func (r *statsRepository) ProductsByCategory(ctx context.Context) ([]NamedCount, error) {
	var rows []NamedCount
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.name AS name, COUNT(products.id) AS total").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.is_active = ?", true).
		Group("categories.name").
		Order("total DESC, categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepository) ReportsBySubject(ctx context.Context) ([]NamedCount, error) {
	var rows []NamedCount
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Select("subject AS name, COUNT(*) AS total").
		Group("subject").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepository) UserSignupsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &out).Error
	return out, err
}

func (r *statsRepository) ProductsCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &out).Error
	return out, err
}

func (r *statsRepository) ProductsSoldSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_sold = ? AND updated_at >= ?", true, since).
		Pluck("updated_at", &out).Error
	return out, err
}
