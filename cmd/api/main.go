package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/relieffund/relieffund-backend/api/routes"
	"github.com/relieffund/relieffund-backend/internal/auth"
	"github.com/relieffund/relieffund-backend/internal/campaigns"
	"github.com/relieffund/relieffund-backend/internal/chainsync"
	"github.com/relieffund/relieffund-backend/internal/disasters"
	"github.com/relieffund/relieffund-backend/internal/donations"
	"github.com/relieffund/relieffund-backend/internal/payments"
	"github.com/relieffund/relieffund-backend/pkg/config"
	"github.com/relieffund/relieffund-backend/pkg/db"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/metrics"
	"github.com/relieffund/relieffund-backend/pkg/migrate"
	"github.com/relieffund/relieffund-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var referenceStore payments.Store
	var memoryStore *payments.MemoryStore
	if strings.EqualFold(cfg.Payments.StoreBackend, "redis") {
		store, err := payments.NewRedisStore(redisClient, cfg.Payments.ReferenceTTL)
		if err != nil {
			logg.Error(ctx, "failed to create redis reference store", err)
			os.Exit(1)
		}
		referenceStore = store
	} else {
		memoryStore = payments.NewMemoryStore()
		referenceStore = memoryStore
	}

	initiation, err := payments.NewInitiationService(referenceStore, paymentMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create initiation service", err)
		os.Exit(1)
	}

	bridge, err := payments.NewBridgeClient(cfg.Wallet, logg)
	if err != nil {
		logg.Error(ctx, "failed to create wallet bridge client", err)
		os.Exit(1)
	}

	donationRepo := donations.NewRepository(dbClient.DB())
	donationService, err := donations.NewService(donationRepo, logg)
	if err != nil {
		logg.Error(ctx, "failed to create donation service", err)
		os.Exit(1)
	}

	var verifier payments.Verifier
	if cfg.Wallet.VerifyLedger {
		verifier = bridge
	}
	confirmation, err := payments.NewConfirmationService(payments.ConfirmationParams{
		Store:    referenceStore,
		Verifier: verifier,
		Recorder: donationService,
		Metrics:  paymentMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create confirmation service", err)
		os.Exit(1)
	}

	sessions, err := donations.NewSessionManager(donations.SessionManagerParams{
		Initiator: initiation,
		Invoker:   bridge,
		Confirmer: confirmation,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	disasterRepo := disasters.NewRepository(dbClient.DB())
	disasterService, err := disasters.NewService(disasterRepo)
	if err != nil {
		logg.Error(ctx, "failed to create disaster service", err)
		os.Exit(1)
	}

	campaignRepo := campaigns.NewRepository(dbClient.DB())
	campaignService, err := campaigns.NewService(campaignRepo)
	if err != nil {
		logg.Error(ctx, "failed to create campaign service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(redisClient, cfg.JWT, logg)
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	if memoryStore != nil {
		sweeper := payments.NewSweeper(memoryStore, cfg.Payments.ReferenceTTL, cfg.Payments.SweepInterval, paymentMetrics, logg)
		go sweeper.Run(ctx)
	}

	go pruneSessions(ctx, sessions, cfg.Payments.ReferenceTTL, logg)

	if cfg.Chain.GatewayURL != "" {
		gateway, err := chainsync.NewGatewayClient(cfg.Chain, logg)
		if err != nil {
			logg.Error(ctx, "failed to create chain gateway client", err)
			os.Exit(1)
		}
		sync, err := chainsync.NewService(gateway, disasterRepo, campaignRepo, logg)
		if err != nil {
			logg.Error(ctx, "failed to create chain sync service", err)
			os.Exit(1)
		}
		go sync.Run(ctx, cfg.Chain.SyncInterval)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Registry:  registry,
			Auth:      authService,
			Disasters: disasterService,
			Campaigns: campaignService,
			Donations: donationService,
			Sessions:  sessions,
			Initiator: initiation,
			Confirmer: confirmation,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
		}
		logg.Info(ctx, "api server shutting down gracefully")
	}
}

// pruneSessions drops wizard sessions that have been idle longer than the
// pending payment TTL; their references were already swept.
func pruneSessions(ctx context.Context, sessions *donations.SessionManager, age time.Duration, logg *logger.Logger) {
	if age <= 0 {
		return
	}
	ticker := time.NewTicker(age)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.PruneOlderThan(age); removed > 0 {
				logg.Info(logg.WithField(ctx, "sessions_removed", removed), "pruned idle donation sessions")
			}
		}
	}
}
