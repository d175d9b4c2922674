package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/timmy/vidguard/internal/config"
	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/encryption"
	"github.com/timmy/vidguard/internal/extractor"
	"github.com/timmy/vidguard/internal/fingerprint"
	"github.com/timmy/vidguard/internal/logger"
	"github.com/timmy/vidguard/internal/repository"
	"github.com/timmy/vidguard/internal/service"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

func main() {
	dir := flag.String("dir", "", "Directory of video files to analyze")
	modeFlag := flag.String("mode", "quantum", "Comparison mode: classical or quantum")
	workers := flag.Int("workers", 4, "Number of concurrent workers")
	flag.Parse()

	if *dir == "" {
		log.Fatal("-dir is required")
	}

	mode, err := domain.ParseMode(*modeFlag)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	analysisRepo := repository.NewAnalysisRepository(db)

	ext := extractor.NewRemoteExtractor(&extractor.RemoteConfig{
		BaseURL:    cfg.Extractor.BaseURL,
		APIKey:     cfg.Extractor.APIKey,
		Dimensions: cfg.Extractor.Dimensions,
		Timeout:    time.Duration(cfg.Extractor.TimeoutSeconds) * time.Second,
	})

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
	}

	analyzer := service.NewAnalyzer(analysisRepo, ext, comparer, nil, appLogger, &service.AnalyzerConfig{
		Alpha: cfg.Analysis.Alpha,
	})

	// Collect files up front so the total is known before dispatch
	var files []string
	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if videoExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to scan directory")
	}

	if len(files) == 0 {
		appLogger.Info("No video files found")
		return
	}

	appLogger.WithFields(logger.Fields{
		"files":   len(files),
		"workers": *workers,
		"mode":    mode,
	}).Info("Starting batch analysis")

	start := time.Now()

	var (
		analyzed   int64
		duplicates int64
		references int64
		failed     int64
	)

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				resp, err := analyzer.Analyze(context.Background(), path, mode)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					appLogger.WithError(err).WithField(logger.FieldVideo, filepath.Base(path)).
						Error("Analysis failed")
					continue
				}
				atomic.AddInt64(&analyzed, 1)
				if resp.Status == "Duplicate" {
					atomic.AddInt64(&duplicates, 1)
				} else {
					atomic.AddInt64(&references, 1)
				}
				appLogger.WithFields(logger.Fields{
					logger.FieldVideo:  filepath.Base(path),
					logger.FieldStatus: resp.Status,
				}).Info("Analyzed video")
			}
		}()
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	appLogger.WithFields(logger.Fields{
		"analyzed":    atomic.LoadInt64(&analyzed),
		"duplicates":  atomic.LoadInt64(&duplicates),
		"references":  atomic.LoadInt64(&references),
		"failed":      atomic.LoadInt64(&failed),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Batch analysis complete")
}
