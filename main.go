package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"intent-miner/config"
	"intent-miner/database"
	"intent-miner/embedding"
	"intent-miner/llmclient"
	"intent-miner/service"
	"intent-miner/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	store, err := database.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	client := llmclient.New(cfg, logger)
	provider := embedding.New(client, cfg, logger)

	runner, err := service.NewRunner(cfg, store, provider, logger)
	if err != nil {
		logger.Fatal("Failed to initialize runner", zap.Error(err))
	}

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.ServeHTTP {
		server := web.NewServer(runner, store, logger, cfg)
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		if err := server.Start(ctx, addr); err != nil {
			logger.Error("Web server error", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	// Batch mode: one discovery run and one audit run, then exit.
	discovery, err := runner.RunDiscovery(ctx)
	if err != nil {
		logger.Fatal("Discovery run failed", zap.Error(err))
	}
	logger.Info("Discovery complete",
		zap.String("run_id", discovery.Metadata.RunID),
		zap.Int("proposed_new", len(discovery.ProposedNew)),
		zap.Int("map_to_existing", len(discovery.MapToExisting)),
		zap.Int("ambiguous", len(discovery.AmbiguousClusters)))

	auditResult, err := runner.RunAudit(ctx)
	if err != nil {
		logger.Fatal("Audit run failed", zap.Error(err))
	}
	logger.Info("Audit complete",
		zap.String("run_id", auditResult.RunID),
		zap.Int("findings", len(auditResult.Findings)),
		zap.Int("promotion_candidates", len(auditResult.Candidates)))
	fmt.Println(auditResult.Report)
}
