package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/adapter/repo"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/http/handlers"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/http/httpapi"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/infra"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/infra/geoip"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/platform/gotrue"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger("development")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	rdb := infra.NewRedisClient(cfg)
	if rdb == nil {
		logger.Warn().Msg("redis unavailable, using in-memory rate limiting")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, request logs omit country")
	}

	authClient, err := gotrue.NewClient(gotrue.Options{
		BaseURL:    cfg.AuthBaseURL,
		ServiceKey: cfg.AuthServiceKey,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("auth platform client failed")
	}

	profiles := repo.NewProfileRepository(pool)
	adminProfiles := repo.NewAdminProfileRepository(pool)
	subscriptions := repo.NewSubscriptionRepository(pool)
	adminSubscriptions := repo.NewAdminSubscriptionRepository(pool)
	transactions := repo.NewTransactionRepository(pool)
	categories := repo.NewCategoryRepository(pool)
	subcategories := repo.NewSubcategoryRepository(pool)
	budgets := repo.NewBudgetRepository(pool)
	goals := repo.NewGoalRepository(pool)
	notifications := repo.NewNotificationRepository(pool)
	adminNotifications := repo.NewAdminNotificationRepository(pool)

	seeder := service.NewSeeder(categories, subcategories, logger)
	resolver := service.NewSubscriptionResolver(profiles, subscriptions, cfg.SubscriptionBypass, logger)
	budgetEngine := service.NewBudgetEngine(budgets, transactions, categories)
	provisioner := service.NewProvisioner(authClient, adminProfiles, seeder, logger)
	reconciler := service.NewReconciler(adminSubscriptions, logger)

	app := &handlers.App{
		Logger: logger,
		Cfg:    cfg,
		Redis:  rdb,

		Auth: authClient,

		Profiles:      profiles,
		AdminProfiles: adminProfiles,

		AdminSubscriptions: adminSubscriptions,

		Transactions:  transactions,
		Categories:    categories,
		Subcategories: subcategories,
		Budgets:       budgets,
		Goals:         goals,

		Notifications:      notifications,
		AdminNotifications: adminNotifications,

		Resolver:    resolver,
		Budget:      budgetEngine,
		Seeder:      seeder,
		Provisioner: provisioner,

		StripeCustomers: handlers.NewStripeCustomerDirectory(cfg.StripeSecretKey),
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() { reconciler.Run(context.Background()) }); err != nil {
		logger.Fatal().Err(err).Msg("reconciliation schedule failed")
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, geo))

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("http server listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
