package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/septivank/energy-insights/internal/cache"
	"github.com/septivank/energy-insights/internal/config"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/insights"
	"github.com/septivank/energy-insights/internal/metrics"
	"github.com/septivank/energy-insights/internal/mq"
	"github.com/septivank/energy-insights/internal/repository"
	"github.com/septivank/energy-insights/internal/server"
	"github.com/septivank/energy-insights/internal/service"
	"github.com/septivank/energy-insights/internal/validator"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func startScanConsumer(
	lc fx.Lifecycle,
	conn *mq.Connection,
	cfg *config.Config,
	logger *zap.Logger,
	processor *service.ScanProcessor,
) (*mq.Consumer, error) {
	// Cancelled on shutdown so in-flight handlers stop
	ctx, cancel := context.WithCancel(context.Background())

	consumer, err := mq.NewConsumer(mq.ConsumerConfig{
		Connection:    conn,
		Queue:         cfg.RabbitMQ.ScanQueue,
		DLQQueue:      cfg.RabbitMQ.DLQQueue,
		Exchange:      cfg.RabbitMQ.ScanExchange,
		RoutingKey:    cfg.RabbitMQ.ScanRoutingKey,
		PrefetchCount: cfg.RabbitMQ.PrefetchCount,
		Logger:        logger,
		Handler:       processor.ProcessMessage,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			logger.Info("starting scan consumer",
				zap.String("queue", cfg.RabbitMQ.ScanQueue),
				zap.Int("prefetch", cfg.RabbitMQ.PrefetchCount))
			return consumer.Start(ctx)
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if err := consumer.Close(); err != nil {
				logger.Error("failed to close consumer", zap.Error(err))
				return err
			}
			logger.Info("scan consumer stopped gracefully")
			return nil
		},
	})

	return consumer, nil
}

func startHTTPServer(lc fx.Lifecycle, s *server.Server, cfg *config.Config, logger *zap.Logger) {
	server.Run(lc, s, cfg.HTTPPort, logger)
}

// ProvideDBPool creates the PostgreSQL pool and applies the schema
func ProvideDBPool(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(lc, logger, cfg.Database.URL)
}

func ProvideRepository(pool *pgxpool.Pool) *repository.Repository {
	return repository.NewRepository(pool)
}

func ProvideValidator() *validator.Validator {
	return validator.NewValidator(validator.DefaultTariffs)
}

func ProvideEngine() *insights.Engine {
	return insights.NewEngine(nil)
}

func ProvideMetrics(cfg *config.Config) *metrics.Metrics {
	return metrics.New(cfg.Metrics.Namespace)
}

// ProvideRedisClient returns nil when caching is disabled
func ProvideRedisClient(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) *redis.Client {
	if !cfg.CachingEnabled() {
		logger.Info("[REDIS] view cache disabled")
		return nil
	}
	return cache.NewClient(lc, logger, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}

func ProvideViewCache(client *redis.Client, cfg *config.Config) *cache.ViewCache {
	return cache.New(client, cfg.Redis.TTL)
}

func ProvideMQConnection(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mq.Connection, error) {
	return mq.NewConnection(lc, logger, cfg.RabbitMQ.URL)
}

func ProvidePublisher(conn *mq.Connection, cfg *config.Config, logger *zap.Logger) (*mq.Publisher, error) {
	return mq.NewPublisher(conn, cfg.RabbitMQ.EventsExchange, cfg.RabbitMQ.EventsRoutingKey, logger)
}

func ProvideInsightsService(
	repo *repository.Repository,
	engine *insights.Engine,
	viewCache *cache.ViewCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *service.InsightsService {
	return service.NewInsightsService(repo, repo, repo, engine, viewCache, m, logger)
}

func ProvideDeviceService(
	repo *repository.Repository,
	v *validator.Validator,
	insightsService *service.InsightsService,
	logger *zap.Logger,
) *service.DeviceService {
	return service.NewDeviceService(repo, v, insightsService, logger)
}

func ProvideBillService(repo *repository.Repository) *service.BillService {
	return service.NewBillService(repo, repo)
}

func ProvideProfileService(
	repo *repository.Repository,
	v *validator.Validator,
	insightsService *service.InsightsService,
) *service.ProfileService {
	return service.NewProfileService(repo, v, insightsService)
}

func ProvideScanProcessor(
	repo *repository.Repository,
	v *validator.Validator,
	insightsService *service.InsightsService,
	publisher *mq.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *service.ScanProcessor {
	return service.NewScanProcessor(repo, v, insightsService, publisher, m, logger)
}

func ProvideServer(
	devices *service.DeviceService,
	insightsService *service.InsightsService,
	bills *service.BillService,
	profiles *service.ProfileService,
	repo *repository.Repository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *server.Server {
	return server.NewServer(server.Params{
		Devices:  devices,
		Insights: insightsService,
		Bills:    bills,
		Profiles: profiles,
		Health:   repo,
		Metrics:  m,
		Logger:   logger,
	})
}
