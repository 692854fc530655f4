package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"uttianguis/internal/auth"
	"uttianguis/internal/cache"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
	"uttianguis/internal/telemetry"
)

// AdminService holds the user-facing moderation actions that are not tied to
// a report or a listing decision.
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	Suspend(ctx context.Context, actor auth.Identity, userID uuid.UUID, reason string) (*model.User, error)
	Activate(ctx context.Context, actor auth.Identity, userID uuid.UUID) (*model.User, error)
	RemoveProduct(ctx context.Context, actor auth.Identity, productID uuid.UUID, reason string) (*model.Product, error)
}

type adminService struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	notifier  Notifier
	cache     *cache.Client
	validator *ListingValidator
}

// NewAdminService builds an AdminService.
func NewAdminService(
	users repository.UserRepository,
	products repository.ProductRepository,
	notifier Notifier,
	cache *cache.Client,
	validator *ListingValidator,
) AdminService {
	return &adminService{
		users:     users,
		products:  products,
		notifier:  notifier,
		cache:     cache,
		validator: validator,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Suspend deactivates the account. Keys already issued to the user are left
// alone; whether they keep working is decided by the auth gate.
func (s *adminService) Suspend(ctx context.Context, actor auth.Identity, userID uuid.UUID, reason string) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientRole
	}
	if err := s.validator.ValidateReason("reason", reason); err != nil {
		return nil, err
	}
	if userID == actor.UserID {
		return nil, apperrors.Validation("you cannot suspend your own account")
	}
	user, err := s.setActive(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	telemetry.ModerationTransitionsTotal.WithLabelValues("user", "suspend").Inc()
	log.WithFields(log.Fields{"user_id": userID, "admin_id": actor.UserID}).Info("user suspended")

	s.notifier.Notify(ctx, userID, model.NotificationSystem, "Tu cuenta ha sido suspendida: "+strings.TrimSpace(reason), nil)
	return user, nil
}

func (s *adminService) Activate(ctx context.Context, actor auth.Identity, userID uuid.UUID) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientRole
	}
	user, err := s.setActive(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	telemetry.ModerationTransitionsTotal.WithLabelValues("user", "activate").Inc()
	log.WithFields(log.Fields{"user_id": userID, "admin_id": actor.UserID}).Info("user activated")

	s.notifier.Notify(ctx, userID, model.NotificationSystem, "Tu cuenta ha sido reactivada", nil)
	return user, nil
}

// RemoveProduct takes a listing down regardless of its state and tells the seller why.
func (s *adminService) RemoveProduct(ctx context.Context, actor auth.Identity, productID uuid.UUID, reason string) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientRole
	}
	if err := s.validator.ValidateReason("reason", reason); err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}
	product.IsActive = false
	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("remove product: %w", err)
	}
	telemetry.ModerationTransitionsTotal.WithLabelValues("product", "remove").Inc()
	log.WithFields(log.Fields{"product_id": productID, "admin_id": actor.UserID}).Info("product removed")

	s.notifier.Notify(ctx, product.SellerID, model.NotificationSystem,
		fmt.Sprintf("Tu producto '%s' ha sido removido: %s", product.Title, strings.TrimSpace(reason)), &product.ID)
	return product, nil
}

func (s *adminService) setActive(ctx context.Context, userID uuid.UUID, active bool) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(userID))
	return user, nil
}
