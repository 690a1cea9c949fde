package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cantina/internal/config"
	"cantina/internal/export"
	apphttp "cantina/internal/http"
	"cantina/internal/log"
	"cantina/internal/services"
	"cantina/internal/wallet"
	"cantina/internal/wallet/memory"
	"cantina/internal/wallet/rest"
)

func main() {
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	// Choose wallet backend (default: memory, seeded with sample data).
	var (
		stats    wallet.StatsReader
		exporter wallet.TransactionExporter
	)
	switch cfg.WalletBackend {
	case "api":
		cli := rest.NewWithTimeout(cfg.WalletAPIURL, cfg.WalletAPIToken, cfg.WalletTimeout)
		stats, exporter = cli, cli
		logger.Info("Initialized wallet API backend", log.FieldWalletBackend, cfg.WalletBackend, "url", cfg.WalletAPIURL)
	default:
		store := memory.NewSeeded(time.Now())
		stats, exporter = store, store
		logger.Info("Initialized memory backend", log.FieldWalletBackend, cfg.WalletBackend)
	}

	view := services.NewStatsView(stats, time.Now)
	files := export.NewExporter(exporter, time.Now)

	srv := apphttp.NewServer(":"+cfg.Port, view, files, stats)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second // PDF rendering can take a moment
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting cantina server",
		"port", cfg.Port,
		log.FieldWalletBackend, cfg.WalletBackend,
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
