package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"certificate-generator/certificate-api/internal/config"
	"certificate-generator/certificate-api/internal/server"
	"certificate-generator/certificate-api/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	configPath := flag.String("config", "", "path to the JSON config file (default $CONFIG_PATH or config.json)")
	flag.Parse()

	_ = godotenv.Load()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.json"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	store, err := server.OpenStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to open certificate storage", zap.Error(err))
	}
	sweeper := server.NewSweeper(store, cfg.Retention, log)

	if !sweeper.Enabled() {
		log.Info("Retention disabled (ttl is 0), nothing to do")
		return
	}

	if *once {
		result, err := sweeper.Sweep(ctx)
		if err != nil {
			log.Error("Retention sweep failed", zap.Error(err))
			os.Exit(1)
		}
		log.Info("Retention sweep complete",
			zap.Int("scanned", result.Scanned),
			zap.Int("deleted", result.Deleted),
			zap.Int("failed", result.Failed),
		)
		return
	}

	log.Info("Retention worker starting")
	if _, err := sweeper.Sweep(ctx); err != nil {
		log.Error("Initial retention sweep failed", zap.Error(err))
	}
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal("Failed to start retention worker", zap.Error(err))
	}

	<-ctx.Done()
	sweeper.Stop()
	log.Info("Retention worker stopped")
}
