package service

import (
	"context"
	"fmt"
	"time"

	"uttianguis/internal/cache"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

const (
	dashboardCacheKey = "stats:dashboard"
	monthlyWindow     = 6
	recentReports     = 10
	monthLayout       = "2006-01"
)

// MonthlyStat is the activity of one calendar month.
type MonthlyStat struct {
	Month        string `json:"month"`
	NewUsers     int    `json:"newUsers"`
	NewProducts  int    `json:"newProducts"`
	SoldProducts int    `json:"soldProducts"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalUsers         int64                   `json:"totalUsers"`
	ActiveUsers        int64                   `json:"activeUsers"`
	TotalProducts      int64                   `json:"totalProducts"`
	ActiveProducts     int64                   `json:"activeProducts"`
	SoldProducts       int64                   `json:"soldProducts"`
	PendingReports     int64                   `json:"pendingReports"`
	ResolvedReports    int64                   `json:"resolvedReports"`
	ProductsByCategory []repository.NamedCount `json:"productsByCategory"`
	ReportsBySubject   []repository.NamedCount `json:"reportsBySubject"`
	Monthly            []MonthlyStat           `json:"monthly"`
	GeneratedAt        time.Time               `json:"generatedAt"`
}

// ReportStats summarises the report queue.
type ReportStats struct {
	Total     int64                   `json:"total"`
	Pending   int64                   `json:"pending"`
	Resolved  int64                   `json:"resolved"`
	Dismissed int64                   `json:"dismissed"`
	BySubject []repository.NamedCount `json:"bySubject"`
	Recent    []model.Report          `json:"recent"`
}

// StatsService computes the admin statistics.
type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Reports(ctx context.Context) (*ReportStats, error)
}

type statsService struct {
	stats   repository.StatsRepository
	reports repository.ReportRepository
	cache   *cache.Client
	ttl     time.Duration
	now     func() time.Time
}

// NewStatsService builds a StatsService. The dashboard is cached for ttl.
func NewStatsService(stats repository.StatsRepository, reports repository.ReportRepository, cache *cache.Client, ttl time.Duration) StatsService {
	return &statsService{stats: stats, reports: reports, cache: cache, ttl: ttl, now: time.Now}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var cached DashboardStats
	if s.cache.GetJSON(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	out := &DashboardStats{GeneratedAt: s.now().UTC()}
	var err error

	if out.TotalUsers, out.ActiveUsers, err = s.stats.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	products, err := s.stats.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	out.TotalProducts, out.ActiveProducts, out.SoldProducts = products.Total, products.Active, products.Sold

	byStatus, err := s.stats.CountReportsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	out.PendingReports = byStatus[model.ReportPending]
	out.ResolvedReports = byStatus[model.ReportResolved]

	if out.ProductsByCategory, err = s.stats.ProductsByCategory(ctx); err != nil {
		return nil, fmt.Errorf("count products by category: %w", err)
	}
	if out.ReportsBySubject, err = s.stats.ReportsBySubject(ctx); err != nil {
		return nil, fmt.Errorf("count reports by subject: %w", err)
	}
	if out.Monthly, err = s.monthly(ctx); err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, dashboardCacheKey, out, s.ttl)
	return out, nil
}

// monthly buckets the last six calendar months, oldest first, in UTC.
func (s *statsService) monthly(ctx context.Context) ([]MonthlyStat, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthlyWindow - 1), 0)

	buckets := make([]MonthlyStat, monthlyWindow)
	index := make(map[string]int, monthlyWindow)
	for i := range buckets {
		month := start.AddDate(0, i, 0).Format(monthLayout)
		buckets[i].Month = month
		index[month] = i
	}

	signups, err := s.stats.UserSignupsSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("load signups: %w", err)
	}
	created, err := s.stats.ProductsCreatedSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("load new products: %w", err)
	}
	sold, err := s.stats.ProductsSoldSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("load sold products: %w", err)
	}

	for _, t := range signups {
		if i, ok := index[t.UTC().Format(monthLayout)]; ok {
			buckets[i].NewUsers++
		}
	}
	for _, t := range created {
		if i, ok := index[t.UTC().Format(monthLayout)]; ok {
			buckets[i].NewProducts++
		}
	}
	for _, t := range sold {
		if i, ok := index[t.UTC().Format(monthLayout)]; ok {
			buckets[i].SoldProducts++
		}
	}
	return buckets, nil
}

func (s *statsService) Reports(ctx context.Context) (*ReportStats, error) {
	byStatus, err := s.stats.CountReportsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	bySubject, err := s.stats.ReportsBySubject(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reports by subject: %w", err)
	}
	recent, err := s.reports.Recent(ctx, recentReports)
	if err != nil {
		return nil, fmt.Errorf("load recent reports: %w", err)
	}

	out := &ReportStats{
		Pending:   byStatus[model.ReportPending],
		Resolved:  byStatus[model.ReportResolved],
		Dismissed: byStatus[model.ReportRejected],
		BySubject: bySubject,
		Recent:    recent,
	}
	for _, n := range byStatus {
		out.Total += n
	}
	return out, nil
}
