package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xin-yuwen/assignment-service/internal/cache"
	"github.com/xin-yuwen/assignment-service/internal/config"
	"github.com/xin-yuwen/assignment-service/internal/handlers"
	"github.com/xin-yuwen/assignment-service/internal/repositories/postgres"
	"github.com/xin-yuwen/assignment-service/internal/services"
	"github.com/xin-yuwen/assignment-service/internal/session"
	"github.com/xin-yuwen/assignment-service/internal/storage"
	"github.com/xin-yuwen/assignment-service/internal/utils"
	appvalidator "github.com/xin-yuwen/assignment-service/internal/validator"
	"github.com/xin-yuwen/assignment-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Redis is optional; without it reads fall through to the database.
	cacheService := cache.NewNoopCache()
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, utils.ToSlogLogger(logger))
	}

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	var uploader storage.Uploader
	if cfg.OSSAccessKeyID != "" {
		uploader, err = storage.NewOSSUploader(cfg.OSSEndpoint, cfg.OSSBucket, cfg.OSSAccessKeyID, cfg.OSSAccessKeySecret)
		if err != nil {
			logger.Error("Failed to initialize OSS uploader", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("OSS credentials not configured, upload signing disabled")
	}

	repo := postgres.NewRepository(db)
	validator := appvalidator.New()
	serviceManager := services.NewServiceManager(repo, cacheService, publisher, validator, logger)
	sessions := session.NewManager(cfg.SessionSecret, cfg.Environment == "production")

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	handlerManager := handlers.NewHandlerManager(serviceManager, sessions, uploader, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exited")
}
