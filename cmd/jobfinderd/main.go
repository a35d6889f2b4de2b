package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"jobfinder/internal/config"
	"jobfinder/internal/history"
	"jobfinder/internal/jobtech"
	"jobfinder/internal/logging"
	"jobfinder/internal/platform/sqlite"
	historyrepo "jobfinder/internal/repository/history"
	savedrepo "jobfinder/internal/repository/saved"
	"jobfinder/internal/saved"
	"jobfinder/internal/search"
	"jobfinder/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := logging.Setup(cfg.LogPath, cfg.LogLevel, true)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	// Root context: cancelled on SIGINT/SIGTERM so in-flight provider calls
	// stop promptly during graceful shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Repositories
	historyRepo := historyrepo.NewRepository(db.DB)
	savedRepo := savedrepo.NewRepository(db.DB)

	// Services
	historySvc := history.NewService(historyRepo, history.WithLimit(cfg.HistoryLimit))
	savedSvc := saved.NewService(savedRepo)
	client := jobtech.New(
		jobtech.WithBaseURL(cfg.APIBaseURL),
		jobtech.WithTimeout(time.Duration(cfg.APITimeoutSeconds)*time.Second),
		jobtech.WithLimit(cfg.ResultLimit),
	)
	// Background searches inherit rootCtx, so shutdown aborts them. The
	// HTTP surface polls tasks instead of receiving presenter callbacks.
	searchSvc := search.NewService(client, historySvc, search.WithBaseContext(rootCtx))

	srv := server.New(rootCtx, cfg.Port, searchSvc, historySvc, savedSvc)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-done:
		case <-gctx.Done():
		}

		// Cancel the root context first so in-flight searches begin
		// winding down, then drain connections with a deadline.
		rootCancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	slog.Info("server started", "port", cfg.Port)
	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
