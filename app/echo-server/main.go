package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zachorg/SwipeCore-sub002/app/echo-server/router"
	"github.com/zachorg/SwipeCore-sub002/business/analytics"
	"github.com/zachorg/SwipeCore-sub002/business/behavior"
	"github.com/zachorg/SwipeCore-sub002/domain"
	"github.com/zachorg/SwipeCore-sub002/internal/middleware"
	psqlRepo "github.com/zachorg/SwipeCore-sub002/internal/repository/postgres"
	redisRepo "github.com/zachorg/SwipeCore-sub002/internal/repository/redis"
	"github.com/zachorg/SwipeCore-sub002/internal/rest"
	"github.com/zachorg/SwipeCore-sub002/pkg/config"
	"github.com/zachorg/SwipeCore-sub002/pkg/database"
	redisdb "github.com/zachorg/SwipeCore-sub002/pkg/database/redis"
	"github.com/zachorg/SwipeCore-sub002/pkg/logger"
	"github.com/zachorg/SwipeCore-sub002/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting prefetch engine", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := db.AutoMigrate(&domain.PrefetchEvent{}, &domain.EngineTuning{}); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)
	logger.Info("Redis connected successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init repo
	store := redisRepo.NewKVStore(redisClient)
	eventRepo := psqlRepo.NewEventRepository(db)
	tuningRepo := psqlRepo.NewEngineConfigRepository(db)

	// Init service
	registry := behavior.NewRegistry(store, behavior.DefaultConfig())
	go registry.Run(ctx)
	analyticsService := analytics.NewService(ctx, store, eventRepo, analytics.DefaultConfig())

	// Init handler
	trackerHandler := rest.NewTrackerHandler(registry)
	prefetchHandler := rest.NewPrefetchHandler(registry, analyticsService, tuningRepo)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsService)
	adminHandler := rest.NewEngineAdminHandler(tuningRepo)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupTrackingRoutes(api, trackerHandler, authRequired)
	router.SetupPrefetchRoutes(api, prefetchHandler, authRequired)
	router.SetupAnalyticsRoutes(api, analyticsHandler, authRequired)
	router.SetupAdminRoutes(api, adminHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	stop()

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
