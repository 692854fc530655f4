package auth

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/telemetry"
)

// HeaderAPIKey is the request header carrying the credential.
const HeaderAPIKey = "X-API-Key"

const identityKey = "identity"

type ctxKey struct{}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}

// IdentityFrom returns the identity attached by Middleware.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	return id, ok && id != nil
}

// Middleware authenticates every request before any handler runs.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := g.Authenticate(c.Request().Context(), c.Request().Header.Get(HeaderAPIKey))
			if err != nil {
				telemetry.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				if !errors.Is(err, apperrors.ErrUnauthenticated) {
					log.WithError(err).Error("api key authentication failed")
				}
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(identityKey, identity)
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))
			return next(c)
		}
	}
}

// RequireRole rejects authenticated callers that do not hold role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMissingCredential)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if identity.Role != role {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInsufficientRole)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrMissingCredential):
		return "missing"
	case errors.Is(err, apperrors.ErrInvalidCredential):
		return "invalid"
	case errors.Is(err, apperrors.ErrExpiredCredential):
		return "expired"
	case errors.Is(err, apperrors.ErrSuspendedAccount):
		return "suspended"
	default:
		return "error"
	}
}
