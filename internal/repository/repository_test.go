package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"uttianguis/internal/model"
)

func TestAPIKeyRepository_FindActiveByKey(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewAPIKeyRepository(gormDB)
	ctx := context.Background()
	user := seedUser(t, gormDB, "llave@uttn.mx")

	key := &model.APIKey{Key: "abc123", UserID: user.ID, Role: model.RoleUser, IsActive: true}
	require.NoError(t, repo.Create(ctx, key))

	found, err := repo.FindActiveByKey(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	require.NoError(t, repo.Deactivate(ctx, key.ID))
	_, err = repo.FindActiveByKey(ctx, "abc123")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Deactivate(ctx, uuid.New()), gorm.ErrRecordNotFound)
}

func TestReportRepository_ListByStatus(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewReportRepository(gormDB)
	ctx := context.Background()

	reporter := seedUser(t, gormDB, "reporta@uttn.mx")
	target := seedUser(t, gormDB, "reportado@uttn.mx")

	open := &model.Report{ReporterID: reporter.ID, ReportedUserID: &target.ID, Subject: "Fraude", ScreenshotURL: "/uploads/a.png"}
	closed := &model.Report{ReporterID: reporter.ID, ReportedUserID: &target.ID, Subject: "Spam", ScreenshotURL: "/uploads/b.png"}
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, closed))
	assert.Equal(t, model.ReportPending, open.Status)

	require.NoError(t, closed.Resolve(uuid.New(), time.Now().UTC(), "ok", true))
	require.NoError(t, repo.Update(ctx, closed))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := model.ReportPending
	onlyPending, err := repo.List(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, "Fraude", onlyPending[0].Subject)
	require.NotNil(t, onlyPending[0].Reporter)
	require.NotNil(t, onlyPending[0].ReportedUser)
	assert.Equal(t, target.ID, onlyPending[0].ReportedUser.ID)
}

func TestNotificationRepository_Lifecycle(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewNotificationRepository(gormDB)
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Notification{UserID: owner, Type: model.NotificationSystem, Content: "hola"}))
	}
	foreign := &model.Notification{UserID: other, Type: model.NotificationSystem, Content: "ajeno"}
	require.NoError(t, repo.Create(ctx, foreign))

	items, total, err := repo.ListForUser(ctx, owner, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	_, err = repo.FindForUser(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.MarkRead(ctx, owner, items[0].ID))
	require.NoError(t, repo.MarkRead(ctx, owner, items[0].ID))

	total, unread, err := repo.CountForUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), unread)

	changed, err := repo.MarkAllRead(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	changed, err = repo.MarkAllRead(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)

	assert.ErrorIs(t, repo.Delete(ctx, owner, foreign.ID), gorm.ErrRecordNotFound)
	assert.NoError(t, repo.Delete(ctx, owner, items[1].ID))
}

func TestRatingRepository_Summary(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewRatingRepository(gormDB)
	ctx := context.Background()

	rated := seedUser(t, gormDB, "calificado@uttn.mx")
	a := seedUser(t, gormDB, "a@uttn.mx")
	b := seedUser(t, gormDB, "b@uttn.mx")

	empty, err := repo.Summary(ctx, rated.ID)
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{}, empty)

	require.NoError(t, repo.Create(ctx, &model.Rating{RaterID: a.ID, RatedUserID: rated.ID, Value: 5}))
	require.NoError(t, repo.Create(ctx, &model.Rating{RaterID: b.ID, RatedUserID: rated.ID, Value: 4}))

	summary, err := repo.Summary(ctx, rated.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	list, err := repo.ListForUser(ctx, rated.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotNil(t, list[0].Rater)
}

func TestFavoriteRepository_ListListable(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewFavoriteRepository(gormDB)
	ctx := context.Background()

	buyer := seedUser(t, gormDB, "compra@uttn.mx")
	seller := seedUser(t, gormDB, "vende2@uttn.mx")
	cat := seedCategory(t, gormDB, "Videojuegos")
	live := seedProduct(t, gormDB, seller, cat, "control", approved)
	sold := seedProduct(t, gormDB, seller, cat, "consola", func(p *model.Product) { p.IsApproved = true; p.IsSold = true })

	require.NoError(t, repo.Create(ctx, &model.Favorite{UserID: buyer.ID, ProductID: live.ID}))
	require.NoError(t, repo.Create(ctx, &model.Favorite{UserID: buyer.ID, ProductID: sold.ID}))

	favs, err := repo.ListListable(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.NotNil(t, favs[0].Product)
	assert.Equal(t, "control", favs[0].Product.Title)

	removed, err := repo.Delete(ctx, buyer.ID, live.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Delete(ctx, buyer.ID, live.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStatsRepository_Counts(t *testing.T) {
	gormDB := newTestDB(t)
	stats := NewStatsRepository(gormDB)
	ctx := context.Background()

	seller := seedUser(t, gormDB, "stats@uttn.mx")
	suspended := seedUser(t, gormDB, "suspendido@uttn.mx")
	suspended.IsActive = false
	require.NoError(t, NewUserRepository(gormDB).Update(ctx, suspended))

	books := seedCategory(t, gormDB, "Libros")
	seedCategory(t, gormDB, "Ropa")
	seedProduct(t, gormDB, seller, books, "uno", approved)
	seedProduct(t, gormDB, seller, books, "dos", func(p *model.Product) { p.IsApproved = true; p.IsSold = true })

	reports := NewReportRepository(gormDB)
	require.NoError(t, reports.Create(ctx, &model.Report{ReporterID: seller.ID, ReportedUserID: &suspended.ID, Subject: "Fraude", ScreenshotURL: "x"}))

	total, active, err := stats.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), active)

	products, err := stats.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, ProductCounts{Total: 2, Active: 1, Sold: 1}, products)

	byStatus, err := stats.CountReportsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byStatus[model.ReportPending])
	assert.Equal(t, int64(0), byStatus[model.ReportResolved])

	byCategory, err := stats.ProductsByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NamedCount{{Name: "Libros", Count: 2}, {Name: "Ropa", Count: 0}}, byCategory)

	bySubject, err := stats.ReportsBySubject(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NamedCount{{Name: "Fraude", Count: 1}}, bySubject)

	created, err := stats.ProductsCreatedSince(ctx, time.Now().UTC().AddDate(0, -6, 0))
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestUserRepository_StoreFailurePropagates(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	boom := errors.New("connection reset by peer")
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnError(boom)

	_, err = NewUserRepository(gormDB).FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
