package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Sarkar-G22/subpro2/config"
	"github.com/Sarkar-G22/subpro2/internal/adapter/ffmpeg"
	HTTPAdapter "github.com/Sarkar-G22/subpro2/internal/adapter/http"
	sqlitestore "github.com/Sarkar-G22/subpro2/internal/adapter/storage/sqlite"
	"github.com/Sarkar-G22/subpro2/internal/adapter/whisper"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/jobs"
	"github.com/Sarkar-G22/subpro2/internal/pipeline"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info.Printf("starting subpro %s on port %d", version, cfg.Port)

	uploadDir := filepath.Join(cfg.DataDir, "uploads")
	outputDir := filepath.Join(cfg.DataDir, "outputs")
	for _, dir := range []string{cfg.DataDir, uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error.Printf("failed to create directory %s: %v", dir, err)
			os.Exit(1)
		}
	}

	store, err := sqlitestore.NewStore(cfg.DataDir)
	if err != nil {
		logger.Error.Printf("failed to create store: %v", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	tracker := jobs.NewTracker(store)
	if err := tracker.FailInterrupted(); err != nil {
		logger.Error.Printf("failed to reset interrupted jobs: %v", err)
		os.Exit(1)
	}

	transcoder := ffmpeg.New(cfg.FFmpegBin)
	engine := whisper.NewEngine(cfg.WhisperBin)
	logger.Info.Printf("dependencies: ffmpeg=%t whisper=%t model=%s",
		transcoder.Available(), engine.Available(), cfg.WhisperModel)
	if !engine.Available() {
		logger.Warn.Printf("whisper binary %q not found; transcription jobs will fail", cfg.WhisperBin)
	}

	coordinator := pipeline.NewCoordinator(tracker, transcoder, engine)

	handlers := HTTPAdapter.NewHandlers(tracker, coordinator, engine, transcoder,
		uploadDir, outputDir, cfg.MaxUploadSizeMB, cfg.WhisperModel, version)
	server := HTTPAdapter.NewServer(handlers)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	// Periodic cleanup of expired jobs and their artifacts
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		retention := time.Duration(cfg.JobRetentionDays) * 24 * time.Hour
		for {
			select {
			case <-ticker.C:
				if err := tracker.Sweep(retention); err != nil {
					logger.Error.Printf("retention sweep failed: %v", err)
				}
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info.Printf("received %s, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("http shutdown error: %v", err)
		}

		sweepCancel()
		logger.Info.Printf("shutdown complete")
	}()

	logger.Info.Printf("server listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error.Printf("server failed: %v", err)
		os.Exit(1)
	}
}
