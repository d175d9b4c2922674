package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/vidguard/internal/api"
	"github.com/timmy/vidguard/internal/config"
	"github.com/timmy/vidguard/internal/encryption"
	"github.com/timmy/vidguard/internal/extractor"
	"github.com/timmy/vidguard/internal/fingerprint"
	"github.com/timmy/vidguard/internal/logger"
	"github.com/timmy/vidguard/internal/repository"
	"github.com/timmy/vidguard/internal/service"
	"github.com/timmy/vidguard/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	analysisRepo := repository.NewAnalysisRepository(db)

	// Ensure the temp upload directory exists
	if err := os.MkdirAll(cfg.Analysis.UploadDir, 0755); err != nil {
		appLogger.WithError(err).Fatal("Failed to create upload directory")
	}

	// Initialize extractor client
	ext := extractor.NewRemoteExtractor(&extractor.RemoteConfig{
		BaseURL:    cfg.Extractor.BaseURL,
		APIKey:     cfg.Extractor.APIKey,
		Dimensions: cfg.Extractor.Dimensions,
		Timeout:    time.Duration(cfg.Extractor.TimeoutSeconds) * time.Second,
	})

	// Pick the comparison engine. Both engines implement the same decision;
	// the encrypted one never observes reference vectors in the clear during
	// comparison. Key generation is expensive and happens exactly once here.
	var comparer service.Comparer = fingerprint.NewEngine(appLogger)
	if cfg.Encryption.Enabled {
		heCtx, err := encryption.NewContext(encryption.Params{
			LogN:     cfg.Encryption.LogN,
			LogQ:     cfg.Encryption.LogQ,
			LogP:     cfg.Encryption.LogP,
			LogScale: cfg.Encryption.LogScale,
		}, cfg.Extractor.Dimensions, 2*cfg.Extractor.Dimensions)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize encryption context")
		}
		comparer = encryption.NewEngine(heCtx, appLogger)
		appLogger.Info("Encrypted comparison enabled")
	}

	// Initialize upload archive (optional)
	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3Storage(&cfg.Storage)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		archive = s3Storage
	}

	// Initialize services
	analyzer := service.NewAnalyzer(analysisRepo, ext, comparer, archive, appLogger, &service.AnalyzerConfig{
		Alpha: cfg.Analysis.Alpha,
	})
	dashboard := service.NewDashboardService(analysisRepo, appLogger)

	// Setup router
	router := api.SetupRouter(analyzer, dashboard, cfg, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
