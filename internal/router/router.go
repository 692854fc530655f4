package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"uttianguis/internal/auth"
	"uttianguis/internal/cache"
	"uttianguis/internal/config"
	"uttianguis/internal/handler"
	"uttianguis/internal/model"
	"uttianguis/internal/storage"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Category     *handler.CategoryHandler
	Product      *handler.ProductHandler
	Report       *handler.ReportHandler
	Admin        *handler.AdminHandler
	Favorite     *handler.FavoriteHandler
	Notification *handler.NotificationHandler
	Rating       *handler.RatingHandler
	User         *handler.UserHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, gate *auth.Gate, h Handlers, cache *cache.Client) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, auth.HeaderAPIKey},
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.Storage.MaxUploadBytes)))
	e.Use(metrics())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.Storage.Backend == "" || cfg.Storage.Backend == "local" {
		e.Static(storage.LocalURLPrefix, cfg.Storage.UploadDir)
	}

	api := e.Group("/api")

	// Public routes
	limited := RateLimit(newRedisAllower(cache.Redis()), cfg.LoginRatePerMinute)
	api.POST("/auth/register", h.Auth.Register, limited)
	api.POST("/auth/login", h.Auth.Login, limited)

	// Everything else requires an API key
	secured := api.Group("", gate.Middleware())
	adminOnly := auth.RequireRole(model.RoleAdmin)

	secured.DELETE("/auth/keys/current", h.Auth.RevokeKey)

	secured.GET("/categories", h.Category.List)

	secured.GET("/products", h.Product.List)
	secured.GET("/products/featured", h.Product.Featured)
	secured.GET("/products/pending", h.Product.Pending, adminOnly)
	secured.GET("/products/:id", h.Product.Get)
	secured.POST("/products", h.Product.Create)
	secured.POST("/products/:id/images", h.Product.AddImages)
	secured.PUT("/products/:id", h.Product.Update)
	secured.DELETE("/products/:id", h.Product.Delete)
	secured.PUT("/products/:id/approve", h.Product.Approve, adminOnly)
	secured.PUT("/products/:id/reject", h.Product.Reject, adminOnly)

	secured.POST("/reports", h.Report.Create)
	secured.GET("/reports", h.Report.List, adminOnly)
	secured.GET("/reports/:id", h.Report.Get)
	secured.PUT("/reports/:id/resolve", h.Report.Resolve, adminOnly)
	secured.PUT("/reports/:id/dismiss", h.Report.Dismiss, adminOnly)

	admin := secured.Group("/admin", adminOnly)
	admin.GET("/statistics/dashboard", h.Admin.Dashboard)
	admin.GET("/statistics/reports", h.Admin.ReportStatistics)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/suspend", h.Admin.Suspend)
	admin.PUT("/users/:id/activate", h.Admin.Activate)
	admin.PUT("/products/:id/remove", h.Admin.RemoveProduct)
	admin.PUT("/reports/:id/resolve", h.Report.Resolve)
	admin.PUT("/reports/:id/dismiss", h.Report.Dismiss)

	secured.GET("/favorites", h.Favorite.List)
	secured.POST("/favorites/:productId", h.Favorite.Add)
	secured.DELETE("/favorites/:productId", h.Favorite.Remove)
	secured.GET("/favorites/:productId/check", h.Favorite.Check)

	secured.GET("/notifications", h.Notification.List)
	secured.GET("/notifications/count", h.Notification.Count)
	secured.PUT("/notifications/read-all", h.Notification.MarkAllRead)
	secured.GET("/notifications/:id", h.Notification.Get)
	secured.PUT("/notifications/:id/read", h.Notification.MarkRead)
	secured.DELETE("/notifications/:id", h.Notification.Delete)

	secured.GET("/ratings/user/:userId", h.Rating.ForUser)
	secured.POST("/ratings", h.Rating.Rate)

	secured.GET("/users/profile", h.User.Me)
	secured.GET("/users/profile/:id", h.User.GetProfile)
	secured.PUT("/users/profile", h.User.UpdateProfile)
	secured.PUT("/users/change-password", h.User.ChangePassword)
	secured.POST("/users/profile-image", h.User.UploadProfileImage)
	secured.GET("/users/:id/products", h.User.Products)
}

// bodyLimit leaves room for a full batch of product images plus form overhead.
func bodyLimit(maxUploadBytes int64) string {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	kb := (maxUploadBytes*5 + 1<<20) / 1024
	return fmt.Sprintf("%dK", kb)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
