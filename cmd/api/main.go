// Package main is the entry point for the library-catalog-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/internal/config"
	"library-catalog-service/internal/infra/postgres"
	"library-catalog-service/internal/infra/postgres/migrations"
	"library-catalog-service/internal/infra/provider/registry"
	redisstore "library-catalog-service/internal/infra/redis"
	"library-catalog-service/internal/job"
	"library-catalog-service/internal/logger"
	"library-catalog-service/internal/searchcache"
	"library-catalog-service/internal/transport/httpserver"
	"library-catalog-service/internal/transport/httpserver/middleware"
	"library-catalog-service/internal/validator"
	"library-catalog-service/pkg/locker"
)

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Level:   cfg.Logger.Level,
			Format:  cfg.Logger.Format,
			Output:  cfg.Logger.Output,
			Service: cfg.App.Name,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting library-catalog-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	ctx := context.Background()

	db, err := postgres.NewConnection(ctx,
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
			LogLevel:     cfg.Database.LogLevel,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	if err := migrations.Run(db, log.Logger); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	repo := postgres.NewRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

	locale, err := language.Parse(cfg.Search.Locale)
	if err != nil {
		log.Warn("invalid search locale, using pt-BR", zap.String("locale", cfg.Search.Locale), zap.Error(err))
		locale = language.BrazilianPortuguese
	}

	var cache *searchcache.Cache
	if cfg.Cache.Enabled {
		cache = searchcache.New(
			searchcache.WithMaxEntries(cfg.Cache.MaxEntries),
			searchcache.WithTTLs(searchcache.TTLConfig{
				Global:    cfg.Cache.TTL.Global,
				Paginated: cfg.Cache.TTL.Paginated,
				Filtered:  cfg.Cache.TTL.Filtered,
				Default:   cfg.Cache.TTL.Default,
			}),
		)
		log.Info("search cache enabled", zap.Int("max_entries", cfg.Cache.MaxEntries))
	} else {
		log.Info("search cache disabled")
	}

	catalog := service.NewCatalog(repo, log.Logger)
	searchSvc := service.NewSearchService(catalog, repo, cache, locale, log.Logger)
	if _, err := catalog.Reload(ctx); err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}

	providers := registry.NewProviders(cfg.Provider, log.Logger)
	syncSvc := service.NewSyncService(repo, providers, catalog, log.Logger)

	historyStore := redisstore.NewStore(redisClient, log.Logger, cfg.Cache.KeyPrefix)
	historySvc := service.NewHistoryService(historyStore, cfg.History.Limit, cfg.History.TTL, log.Logger)

	distLocker := locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix, log.Logger)
	scheduler := job.NewSyncScheduler(
		syncSvc,
		job.SyncConfig{
			Interval:  cfg.Sync.Interval,
			Timeout:   cfg.Sync.Timeout,
			OnStartup: cfg.Sync.OnStartup,
		},
		log.Logger,
		distLocker,
	)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    1024 * 1024, // 1MB
			Debug:        cfg.App.Debug,
			DefaultLimit: cfg.Search.DefaultLimit,
		},
		httpserver.Deps{
			Catalog:    catalog,
			Search:     searchSvc,
			Sync:       syncSvc,
			History:    historySvc,
			SyncRunner: scheduler,
			Readiness: []middleware.Pinger{
				func(ctx context.Context) error { return postgres.HealthCheck(ctx, db) },
				historyStore.Ping,
			},
		},
		validator.New(),
		log.Logger,
	)

	scheduler.Start(cfg.Sync.OnStartup)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
