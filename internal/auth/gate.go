package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

// Identity is the authenticated caller resolved from an API key.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	KeyID  uuid.UUID `json:"-"`
}

// IsAdmin reports whether the identity carries the Admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// CanManage reports whether the identity owns the resource or is an admin.
func (i Identity) CanManage(ownerID uuid.UUID) bool {
	return i.IsAdmin() || i.UserID == ownerID
}

// GateOptions switches the optional checks of the gate.
type GateOptions struct {
	EnforceSuspension bool
	LiveRole          bool
}

// Gate turns an API key into an Identity. It never writes.
type Gate struct {
	keys  repository.APIKeyRepository
	users repository.UserRepository
	opts  GateOptions
	now   func() time.Time
}

// NewGate builds a gate over the key and user stores.
func NewGate(keys repository.APIKeyRepository, users repository.UserRepository, opts GateOptions) *Gate {
	return &Gate{keys: keys, users: users, opts: opts, now: time.Now}
}

// Authenticate validates credential in order: presence, an active matching
// key, expiry. By default the identity is the snapshot stored on the key.
func (g *Gate) Authenticate(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, apperrors.ErrMissingCredential
	}

	key, err := g.keys.FindActiveByKey(ctx, credential)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredential
		}
		return nil, fmt.Errorf("lookup api key: %w", err)
	}
	// Collations may compare case-insensitively; the key must match byte for byte.
	if subtle.ConstantTimeCompare([]byte(key.Key), []byte(credential)) != 1 {
		return nil, apperrors.ErrInvalidCredential
	}
	if key.Expired(g.now()) {
		return nil, apperrors.ErrExpiredCredential
	}

	identity := &Identity{
		UserID: key.UserID,
		Name:   key.Name,
		Email:  key.Email,
		Role:   key.Role,
		KeyID:  key.ID,
	}

	if !g.opts.EnforceSuspension && !g.opts.LiveRole {
		return identity, nil
	}

	user, err := g.users.FindByID(ctx, key.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredential
		}
		return nil, fmt.Errorf("lookup key owner: %w", err)
	}
	if g.opts.EnforceSuspension && !user.IsActive {
		return nil, apperrors.ErrSuspendedAccount
	}
	if g.opts.LiveRole {
		identity.Name = user.Name
		identity.Email = user.Email
		identity.Role = user.Role
	}
	return identity, nil
}
