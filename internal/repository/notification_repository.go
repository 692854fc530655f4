package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uttianguis/internal/model"
)

// NotificationRepository stores per-user notifications. Every lookup is scoped
// to the owning user.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindForUser(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Notification, int64, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (total, unread int64, err error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	// MarkAllRead flags every unread notification and returns how many changed.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository builds a GORM-backed repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) FindForUser(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Notification, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *notificationRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var total, unread int64
	if err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return 0, 0, err
	}
	return total, unread, nil
}

// MarkRead looks the row up first because some drivers report zero affected
// rows when the value is unchanged.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := r.FindForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return r.db.WithContext(ctx).Model(n).Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
