package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "uttianguis/docs" // swagger docs

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"uttianguis/internal/auth"
	"uttianguis/internal/cache"
	"uttianguis/internal/config"
	"uttianguis/internal/db"
	"uttianguis/internal/handler"
	"uttianguis/internal/logging"
	"uttianguis/internal/repository"
	"uttianguis/internal/router"
	"uttianguis/internal/service"
	"uttianguis/internal/storage"
)

// @title UTTianguis API
// @version 1.0
// @description Student marketplace API with API-key authentication, product and report moderation, and user suspension.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Load()
	logCloser := logging.Setup(cfg)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient == nil {
		log.Info("REDIS_ADDR not set, caching and rate limiting disabled")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("storage init")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	apiKeyRepo := repository.NewAPIKeyRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	favoriteRepo := repository.NewFavoriteRepository(gormDB)
	ratingRepo := repository.NewRatingRepository(gormDB)
	statsRepo := repository.NewStatsRepository(gormDB)

	seeder := service.NewSeeder(categoryRepo, userRepo, cacheClient)
	if err := seeder.Seed(ctx, service.AdminAccount{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		log.WithError(err).Fatal("seed")
	}

	// Initialize services
	validator := service.NewListingValidator(cfg.EmailDomain)
	notificationService := service.NewNotificationService(notificationRepo)
	authService := service.NewAuthService(userRepo, apiKeyRepo, validator)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	productService := service.NewProductService(productRepo, categoryRepo, store, notificationService, validator, cfg.Policy)
	reportService := service.NewReportService(reportRepo, userRepo, productRepo, store, notificationService, validator, cfg.Policy)
	adminService := service.NewAdminService(userRepo, productRepo, notificationService, cacheClient, validator)
	statsService := service.NewStatsService(statsRepo, reportRepo, cacheClient, cfg.StatsCacheTTL)
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)
	ratingService := service.NewRatingService(ratingRepo, userRepo)
	userService := service.NewUserService(userRepo, productRepo, ratingRepo, store, cacheClient, validator)

	gate := auth.NewGate(apiKeyRepo, userRepo, auth.GateOptions{
		EnforceSuspension: cfg.Policy.EnforceSuspension,
		LiveRole:          cfg.Policy.LiveRole,
	})

	maxUpload := cfg.Storage.MaxUploadBytes
	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, gate, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Category:     handler.NewCategoryHandler(categoryService),
		Product:      handler.NewProductHandler(productService, maxUpload),
		Report:       handler.NewReportHandler(reportService, maxUpload),
		Admin:        handler.NewAdminHandler(adminService, statsService),
		Favorite:     handler.NewFavoriteHandler(favoriteService),
		Notification: handler.NewNotificationHandler(notificationService),
		Rating:       handler.NewRatingHandler(ratingService),
		User:         handler.NewUserHandler(userService, productService, maxUpload),
	}, cacheClient)

	log.WithFields(log.Fields{
		"swagger":            swaggerURL(cfg.SwaggerHost, cfg.ServerPort),
		"enforce_suspension": cfg.Policy.EnforceSuspension,
		"live_role":          cfg.Policy.LiveRole,
		"strict_transitions": cfg.Policy.StrictTransitions,
		"review_on_edit":     cfg.Policy.ReviewOnEdit,
	}).Info("server configured")

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}

// swaggerURL builds the documentation URL; host may already carry a scheme.
func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return strings.TrimSuffix(host, "/") + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
