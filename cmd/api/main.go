package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multibank/config"
	httpHandler "multibank/internal/adapter/http/handler"
	"multibank/internal/adapter/ratesource"
	pgStorage "multibank/internal/adapter/storage/postgres"
	redisStorage "multibank/internal/adapter/storage/redis"
	"multibank/internal/core/ports"
	"multibank/internal/service"
	"multibank/pkg/logger"
	"multibank/pkg/retry"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Multi-Currency Bank")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	cardRepo := pgStorage.NewCardRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	rateRepo := pgStorage.NewRateRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Rate bus carries snapshots to subscribers over Redis pub/sub
	rateBus := redisStorage.NewRateBus(rdb, log)

	// Upstream rate sources
	cryptoSrc := ratesource.NewCoinGeckoSource(cfg.RateFeed.CryptoBaseURL, cfg.RateFeed.SourceTimeout)
	fiatSrc := ratesource.NewOpenERSource(cfg.RateFeed.FiatBaseURL, cfg.RateFeed.SourceTimeout)

	retryCfg := retry.Config{
		Attempts:  cfg.Transfer.RetryAttempts,
		BaseDelay: cfg.Transfer.RetryBaseDelay,
	}

	// Background rate feed
	rateFeed := service.NewRateFeed(rateRepo, cryptoSrc, fiatSrc, rateBus, service.RateFeedOptions{
		Interval:  cfg.RateFeed.Interval,
		Staleness: cfg.RateFeed.Staleness,
		Cooldown:  cfg.RateFeed.Cooldown,
		Retry:     retryCfg,
	}, log)
	rateFeed.Start(ctx)
	defer rateFeed.Stop()
	log.Info().Dur("interval", cfg.RateFeed.Interval).Msg("Rate feed started")

	commissionRate, err := decimal.NewFromString(cfg.Transfer.CommissionRate)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Transfer.CommissionRate).Msg("Invalid commission rate")
	}

	// Initialize business services
	transferSvc := service.NewTransferService(cardRepo, userRepo, txRepo, rateFeed, transactor, commissionRate, retryCfg, log)
	ledgerSvc := service.NewLedgerService(txRepo, cardRepo, retryCfg, log)

	// The regulator account must exist before any transfer can settle.
	if err := transferSvc.ResolveRegulator(ctx); err != nil {
		log.Fatal().Err(err).Msg("Regulator account unavailable")
	}
	log.Info().Msg("Regulator account resolved")

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TransferSvc:    transferSvc,
		LedgerSvc:      ledgerSvc,
		Rates:          rateFeed,
		RateSubscriber: rateBus,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
