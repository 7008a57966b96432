package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/config"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/db"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/logger"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/messaging"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/services"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// monitorInterval is how often the staleness monitor sweeps for due sources.
// Each sweep re-checks freshness, so sweeping more often than the freshness
// window only costs a few queries.
const monitorInterval = 30 * time.Minute

func main() {
	// INITIATE CONFIGURATION
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file, using environment variables")
	}

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// INITIATE DATABASES
	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup database")
	}
	defer dbConn.Close()

	logger.InitializeLogging(dbConn)
	log.Info().Msg("Zerolog database hooks initialized")

	// INITIATE NATS CLIENT
	natsClient, err := messaging.SetupNatsBroker(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup NATS client")
	}
	defer natsClient.Close()

	// INITIATE ARCHIVE STORAGE
	var archiveStorage storage.StorageService
	if cfg.Sync.ArchiveImports && cfg.GCS.Bucket != "" {
		archiveStorage, err = storage.NewGCSStorage(ctx, storage.GCSConfig{
			ProjectID:       cfg.GCS.ProjectID,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup GCS storage")
		}
		if err := storage.SetStorageClient(archiveStorage); err != nil {
			log.Fatal().Err(err).Msg("Failed to set storage client")
		}
	} else {
		log.Warn().Msg("Import archival disabled, raw files will not be retained")
	}

	// WIRE THE SYNC ENGINE
	sourceRepo := services.NewSourceConfigRepository(dbConn.Queries)
	catalogRepo := services.NewCatalogRepository(dbConn.Queries)
	changeRepo := services.NewChangeRepository(dbConn.Queries)
	jobRepo := services.NewSyncJobRepository(dbConn.Queries)
	healthRepo := services.NewSourceHealthRepository(dbConn.Queries)

	differ := aplsync.NewDiffer(catalogRepo, changeRepo)
	fetcher := aplsync.NewHTTPFetcher(cfg.Sync.FetchTimeout, cfg.Sync.MaxRedirects)

	orchestrator := aplsync.NewOrchestrator(
		cfg.Sync,
		fetcher,
		differ,
		sourceRepo,
		catalogRepo,
		jobRepo,
		healthRepo,
		dbConn.Redis,
		natsClient,
		dbConn.Redis,
		archiveStorage,
		cfg.GCS.Bucket,
	)

	// Listen for externally published sync requests
	consumeCtx, err := aplsync.RegisterSyncSubscriptions(ctx, natsClient, sourceRepo, orchestrator)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register sync subscriptions")
	}
	defer consumeCtx.Stop()
	log.Info().Msg("Sync subscriptions registered successfully")

	// Drive scheduled syncs off staleness
	monitor := aplsync.NewMonitor(cfg.Sync, sourceRepo, healthRepo, orchestrator)
	go monitor.Run(ctx, monitorInterval)

	// INITIATE SERVER
	server, err := NewAppHttpServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the server")
	}

	server.SetDB(dbConn)
	server.SetNatsClient(natsClient)
	server.SetRunner(orchestrator)
	server.SetStorage(archiveStorage)

	server.setupRoute()

	go func() {
		if err := server.start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			cancel()
		}
	}()

	log.Info().Str("address", cfg.Listen.Addr()).Msg("Server started successfully")

	<-shutdown
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server gracefully stopped")
}
