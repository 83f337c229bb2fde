package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/salescope/salescope/internal/app"
	"github.com/salescope/salescope/internal/auth"
	"github.com/salescope/salescope/internal/customers"
	"github.com/salescope/salescope/internal/deposits"
	"github.com/salescope/salescope/internal/directory"
	"github.com/salescope/salescope/internal/insights"
	"github.com/salescope/salescope/internal/observability"
	"github.com/salescope/salescope/internal/promotions"
	"github.com/salescope/salescope/internal/replicate"
	"github.com/salescope/salescope/internal/sales"
	"github.com/salescope/salescope/internal/shared"
	"github.com/salescope/salescope/internal/topups"
	"github.com/salescope/salescope/internal/users"
	"github.com/salescope/salescope/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "salescope_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	store := replicate.NewPGStore(dbpool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("ensure snapshot schema", slog.Any("error", err))
		os.Exit(1)
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()
	replicator := replicate.New(logger, store, asynqClient)
	defer replicator.Wait()

	salesService := sales.NewService(logger, replicator)
	depositsService := deposits.NewService(logger, replicator)
	customersService := customers.NewService(logger, replicator)
	topupsService := topups.NewService(logger, replicator)
	promosService := promotions.NewService(logger, replicator)
	usersService := users.NewService(logger, replicator)

	hydrate(ctx, logger, replicator, salesService, depositsService, customersService, topupsService, promosService, usersService)

	var dirSource directory.Source
	if cfg.DirectoryURL != "" {
		dirSource = directory.NewHTTPSource(cfg.DirectoryURL, cfg.DirectorySheet, nil)
	}
	dirService := directory.NewService(logger, dirSource, usersService, cfg.DirectoryTimeout)

	authService := auth.NewService(usersService, dirService)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)
	authMiddleware := auth.Middleware{Users: usersService, Logger: logger}

	insightsService := insights.NewService(salesService, topupsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		SalesHandler:     sales.NewHandler(logger, salesService),
		DepositsHandler:  deposits.NewHandler(logger, depositsService),
		CustomersHandler: customers.NewHandler(logger, customersService),
		TopUpsHandler:    topups.NewHandler(logger, topupsService),
		PromosHandler:    promotions.NewHandler(logger, promosService),
		UsersHandler:     users.NewHandler(logger, usersService),
		InsightsHandler:  insights.NewHandler(logger, insightsService),
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.DirectoryRefreshEvery > 0 && dirSource != nil {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.DirectoryRefreshEvery)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					dirService.Refresh(gctx)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
}

// hydrate restores every collection from its newest Postgres snapshot.
// Missing snapshots leave collections empty; decode errors abort boot
// rather than serve a directory that silently lost its accounts.
func hydrate(
	ctx context.Context,
	logger *slog.Logger,
	rep *replicate.Replicator,
	salesSvc *sales.Service,
	depositsSvc *deposits.Service,
	customersSvc *customers.Service,
	topupsSvc *topups.Service,
	promosSvc *promotions.Service,
	usersSvc *users.Service,
) {
	var saleItems []sales.Sale
	mustHydrate(ctx, logger, rep, sales.CollectionName, &saleItems)
	salesSvc.Hydrate(saleItems)

	var depositItems []deposits.Deposit
	mustHydrate(ctx, logger, rep, deposits.CollectionName, &depositItems)
	depositsSvc.Hydrate(depositItems)

	var customerItems []customers.Customer
	mustHydrate(ctx, logger, rep, customers.CollectionName, &customerItems)
	customersSvc.Hydrate(customerItems)

	var topupItems []topups.TopUp
	mustHydrate(ctx, logger, rep, topups.CollectionName, &topupItems)
	topupsSvc.Hydrate(topupItems)

	var promoItems []promotions.Promotion
	mustHydrate(ctx, logger, rep, promotions.CollectionName, &promoItems)
	promosSvc.Hydrate(promoItems)

	var userItems []users.User
	mustHydrate(ctx, logger, rep, users.CollectionName, &userItems)
	usersSvc.Hydrate(userItems)

	logger.Info("collections hydrated",
		slog.Int("sales", len(saleItems)),
		slog.Int("deposits", len(depositItems)),
		slog.Int("customers", len(customerItems)),
		slog.Int("topups", len(topupItems)),
		slog.Int("promotions", len(promoItems)),
		slog.Int("users", len(userItems)))
}

func mustHydrate(ctx context.Context, logger *slog.Logger, rep *replicate.Replicator, collection string, dst any) {
	if err := rep.Hydrate(ctx, collection, dst); err != nil {
		logger.Error("hydrate collection", slog.String("collection", collection), slog.Any("error", err))
		os.Exit(1)
	}
}
