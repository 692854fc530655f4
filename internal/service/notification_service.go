package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

const defaultNotificationPageSize = 10

// Notifier records in-app notifications. Delivery is fire-and-forget: a failed
// insert is logged and never fails the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, content string, relatedID *uuid.UUID)
}

// NotificationPage is one page of a user's notifications.
type NotificationPage struct {
	Items    []model.Notification `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}

// NotificationCount summarises a user's inbox.
type NotificationCount struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

// NotificationService exposes the caller's inbox.
type NotificationService interface {
	Notifier
	List(ctx context.Context, actor auth.Identity, page, pageSize int) (*NotificationPage, error)
	Count(ctx context.Context, actor auth.Identity) (*NotificationCount, error)
	Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Notification, error)
	MarkRead(ctx context.Context, actor auth.Identity, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor auth.Identity) (int64, error)
	Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService builds a NotificationService.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, kind, content string, relatedID *uuid.UUID) {
	n := &model.Notification{
		UserID:    userID,
		Type:      kind,
		Content:   content,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"type":    kind,
		}).Warn("failed to create notification")
	}
}

func (s *notificationService) List(ctx context.Context, actor auth.Identity, page, pageSize int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultNotificationPageSize
	}
	items, total, err := s.repo.ListForUser(ctx, actor.UserID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &NotificationPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *notificationService) Count(ctx context.Context, actor auth.Identity) (*NotificationCount, error) {
	total, unread, err := s.repo.CountForUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	return &NotificationCount{Total: total, Unread: unread}, nil
}

func (s *notificationService) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.FindForUser(ctx, actor.UserID, id)
	if err != nil {
		return nil, notFoundOr(err, "notification")
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, actor.UserID, id); err != nil {
		return notFoundOr(err, "notification")
	}
	return nil
}

// MarkAllRead returns NotFound when the caller had no unread notifications.
func (s *notificationService) MarkAllRead(ctx context.Context, actor auth.Identity) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	if n == 0 {
		return 0, apperrors.NotFound("unread notifications")
	}
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, actor.UserID, id); err != nil {
		return notFoundOr(err, "notification")
	}
	return nil
}

// notFoundOr maps a missing row to a NotFound error naming entity and wraps
// anything else as a store failure.
func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}
