// Package main runs the learning-materials HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edulingo/backend/config"
	"github.com/edulingo/backend/internal/extractor"
	"github.com/edulingo/backend/internal/materials"
	"github.com/edulingo/backend/internal/middleware"
	"github.com/edulingo/backend/internal/resolver"
	"github.com/edulingo/backend/internal/users"
	"github.com/edulingo/backend/pkg/database"
	"github.com/edulingo/backend/pkg/response"
	"github.com/edulingo/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Blob storage is optional: without credentials the upload stage fails
	// fast and every request is recorded as failed.
	var artifacts materials.ArtifactStore = storage.Disabled{}
	if cfg.Storage.Enabled() {
		s3Client, err := storage.NewS3(ctx, storage.Config{
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
		}, logger)
		if err != nil {
			logger.Warn("blob storage disabled", zap.Error(err))
		} else {
			artifacts = s3Client
		}
	} else {
		logger.Warn("blob storage disabled: S3 credentials not set")
	}

	materialRepo := materials.NewRepository(pool)
	pipeline := materials.NewService(
		resolver.NewYouTube(logger),
		extractor.NewFFmpeg(logger),
		artifacts,
		materialRepo,
		logger,
	)
	materialHandler := materials.NewHandler(pipeline, materialRepo, logger,
		time.Duration(cfg.Pipeline.TimeoutSec)*time.Second)

	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			response.OK(c, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
		})
		api.GET("/users", userHandler.List)
		api.POST("/learning-materials", materialHandler.Create)
		api.GET("/learning-materials", materialHandler.List)
		api.GET("/learning-materials/:id", materialHandler.GetByID)
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		// Write timeout covers the whole synchronous pipeline run.
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := cfg.Build()
	return logger
}
