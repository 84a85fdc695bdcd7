package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"open-payments-bridge/config"
	httpHandler "open-payments-bridge/internal/adapter/http/handler"
	"open-payments-bridge/internal/adapter/opclient"
	memStorage "open-payments-bridge/internal/adapter/storage/memory"
	pgStorage "open-payments-bridge/internal/adapter/storage/postgres"
	redisStorage "open-payments-bridge/internal/adapter/storage/redis"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/internal/service"
	"open-payments-bridge/pkg/logger"
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
		Str("store_backend", cfg.Store.Backend).
		Msg("Starting Open Payments Bridge")

	ctx := context.Background()

	// Overlay client credentials from the provisioning endpoint, if configured
	if err := config.FetchRemote(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch bootstrap configuration")
	}

	// Pending-payment store, health checkers and rate limiting per backend
	var (
		pendingStore   ports.PendingPaymentStore
		healthCheckers []ports.HealthChecker
		rateLimitStore *redisStorage.RateLimitStore
	)

	switch cfg.Store.Backend {
	case "memory":
		memStore := memStorage.NewPendingPaymentStore(cfg.Store.TTL, cfg.Store.SweepInterval, log)
		defer memStore.Stop()
		pendingStore = memStore
		log.Info().Msg("Using in-memory pending payment store")

	case "redis":
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		pendingStore = redisStorage.NewPendingPaymentStore(rdb, cfg.Store.TTL)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))

	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		pgStore := pgStorage.NewPendingPaymentStore(pool, cfg.Store.TTL)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate pending_payments table")
		}
		pendingStore = pgStore
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))

		// Expired rows are reclaimed periodically; Get already ignores them.
		if cfg.Store.SweepInterval > 0 {
			go func() {
				ticker := time.NewTicker(cfg.Store.SweepInterval)
				defer ticker.Stop()
				for range ticker.C {
					if n, err := pgStore.Sweep(context.Background()); err != nil {
						log.Warn().Err(err).Msg("pending payment sweep failed")
					} else if n > 0 {
						log.Debug().Int64("expired", n).Msg("swept expired pending payments")
					}
				}
			}()
		}

	default:
		log.Fatal().Str("backend", cfg.Store.Backend).Msg("Unknown store backend")
	}

	// The Open Payments client is constructed lazily on first use, so a
	// provisioning race at startup does not take the whole service down.
	accessor := service.NewClientAccessor(func() (ports.OpenPaymentsClient, error) {
		return opclient.New(opclient.Config{
			WalletAddressURL: cfg.Client.WalletAddressURL,
			KeyID:            cfg.Client.KeyID,
			PrivateKey:       cfg.Client.PrivateKeyMaterial(),
		}, log)
	})

	grants := service.NewGrantService(accessor, log)
	engine := service.NewContinuationEngine(accessor, log)
	flowSvc := service.NewPaymentFlowService(accessor, grants, engine, pendingStore, service.FlowConfig{
		SenderWalletURL:     cfg.Payment.SenderWalletURL,
		FinishURI:           cfg.Payment.FinishURI,
		DefaultAssetCode:    cfg.Payment.DefaultAssetCode,
		DefaultAssetScale:   cfg.Payment.DefaultAssetScale,
		MaxContinueAttempts: cfg.Payment.MaxContinueAttempts,
	}, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		FlowSvc:        flowSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
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
