package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/setuponce/backend/api/handler"
	"github.com/setuponce/backend/internal/config"
	"github.com/setuponce/backend/internal/infrastructure/journal"
	"github.com/setuponce/backend/internal/infrastructure/monitor"
	pgInfra "github.com/setuponce/backend/internal/infrastructure/postgres"
	redisInfra "github.com/setuponce/backend/internal/infrastructure/redis"
	"github.com/setuponce/backend/internal/metrics"
	"github.com/setuponce/backend/internal/middleware"
	"github.com/setuponce/backend/internal/router"
	"github.com/setuponce/backend/internal/services"
	"github.com/setuponce/backend/internal/services/lifecycle"
	"github.com/setuponce/backend/pkg/httpcontext"
	"github.com/setuponce/backend/pkg/logger"
	"github.com/setuponce/backend/repository/postgres"
	redisRepo "github.com/setuponce/backend/repository/redis"
	authUC "github.com/setuponce/backend/usecase/auth"
	businessUC "github.com/setuponce/backend/usecase/business"
	catalogUC "github.com/setuponce/backend/usecase/catalog"
	chatUC "github.com/setuponce/backend/usecase/chat"
	notifyUC "github.com/setuponce/backend/usecase/notify"
	ordersUC "github.com/setuponce/backend/usecase/orders"
	overviewUC "github.com/setuponce/backend/usecase/overview"
	profileUC "github.com/setuponce/backend/usecase/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journalStore, err := journal.Open(cfg.Journal.Path, "")
	if err != nil {
		zapLogger.Fatal("failed to open notification journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New(cfg.Metrics.Namespace)
	}

	mon := monitor.New(pool, redisClient, journalStore, 0, zapLogger).WithGauge(appMetrics)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	pruner, err := services.NewJournalPruner(journalStore, services.PrunerConfig{
		Schedule:  cfg.Journal.PruneSchedule,
		Retention: cfg.Journal.Retention,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("invalid journal prune schedule", zap.Error(err))
	}
	pruner.Start()
	manager.Register("journal_pruner", func(ctx context.Context) error {
		pruner.Stop(ctx)
		return nil
	})

	profileRepo := postgres.NewProfileRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	attributeRepo := postgres.NewAttributeRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	overviewRepo := postgres.NewOverviewRepository(pool)

	tokenRepo := redisRepo.NewTokenRepository(redisClient, cfg.JWT.RevocationTTL)
	revisionRepo := redisRepo.NewRevisionRepository(redisClient)
	businessCache := redisRepo.NewBusinessCache(redisClient, cfg.Business.CacheTTL)

	notifier := notifyUC.New(journalStore, appMetrics, cfg.Journal.DefaultLimit, zapLogger)

	profileUseCase := profileUC.New(profileRepo, zapLogger)
	businessUseCase := businessUC.New(businessRepo, businessCache, notifier, businessUC.Settle{
		Delay:    cfg.Business.SettleDelay,
		Attempts: cfg.Business.SettleAttempts,
	}, zapLogger)
	authUseCase := authUC.New(profileUseCase, businessUseCase, tokenRepo, zapLogger)
	catalogUseCase := catalogUC.New(catalogUC.Deps{
		Products:   productRepo,
		Categories: categoryRepo,
		Attributes: attributeRepo,
		Revisions:  revisionRepo,
		Notifier:   notifier,
		Recorder:   appMetrics,
		Logger:     zapLogger,
	})
	ordersUseCase := ordersUC.New(ordersUC.Deps{
		Orders:    orderRepo,
		Products:  productRepo,
		Revisions: revisionRepo,
		Notifier:  notifier,
		Recorder:  appMetrics,
		Logger:    zapLogger,
	})
	chatUseCase := chatUC.New(chatUC.Deps{
		Conversations: conversationRepo,
		Messages:      messageRepo,
		Revisions:     revisionRepo,
		Notifier:      notifier,
		Recorder:      appMetrics,
		Logger:        zapLogger,
	})
	overviewUseCase := overviewUC.New(overviewRepo)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Health:     apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Account:    apiHandler.NewAccountHandler(authUseCase, ctxAdapter, zapLogger),
		Business:   apiHandler.NewBusinessHandler(businessUseCase, ctxAdapter, zapLogger),
		Dashboard:  apiHandler.NewDashboardHandler(overviewUseCase, notifier, ctxAdapter, zapLogger),
		Catalog:    apiHandler.NewCatalogHandler(catalogUseCase, ctxAdapter, zapLogger),
		Products:   apiHandler.NewTabHandler(catalogUseCase.Products, ctxAdapter, zapLogger),
		Categories: apiHandler.NewTabHandler(catalogUseCase.Categories, ctxAdapter, zapLogger),
		Attributes: apiHandler.NewTabHandler(catalogUseCase.Attributes, ctxAdapter, zapLogger),
		Orders:     apiHandler.NewTabHandler(ordersUseCase.Service, ctxAdapter, zapLogger),
		OrderState: apiHandler.NewOrderHandler(ordersUseCase, ctxAdapter, zapLogger),
		Chats:      apiHandler.NewTabHandler(chatUseCase.Service, ctxAdapter, zapLogger),
		Chat:       apiHandler.NewChatHandler(chatUseCase, chatUseCase.Collection(), ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(middleware.JWTOptions{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}, authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware, appMetrics)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
