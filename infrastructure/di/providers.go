package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kimtaewoo9/mansereok/application/ports"
	"github.com/kimtaewoo9/mansereok/application/queries"
	querybus "github.com/kimtaewoo9/mansereok/application/queries/bus"
	"github.com/kimtaewoo9/mansereok/application/queries/handlers"
	"github.com/kimtaewoo9/mansereok/application/services"
	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	"github.com/kimtaewoo9/mansereok/domain/core/tables"
	"github.com/kimtaewoo9/mansereok/infrastructure/config"
	"github.com/kimtaewoo9/mansereok/infrastructure/messaging"
	"github.com/kimtaewoo9/mansereok/infrastructure/messaging/eventbridge"
	"github.com/kimtaewoo9/mansereok/infrastructure/observability"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/decorators"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/dynamodb"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/memory"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/seed"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/sqlstore"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
	pkgobs "github.com/kimtaewoo9/mansereok/pkg/observability"
)

const serviceName = "mansereok"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, pkgerrors.NewConfigurationError(fmt.Sprintf("invalid log level %q", cfg.LogLevel))
	}

	var zcfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client. A configured endpoint
// points it at DynamoDB Local.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})
}

// ProvideAlmanacStore opens the almanac backend named by the configuration.
// The returned cleanup releases its connections or file watcher.
func ProvideAlmanacStore(
	ctx context.Context,
	cfg *config.Config,
	awsCfg aws.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) (ports.AlmanacStore, func(), error) {
	noop := func() {}

	switch cfg.Almanac.Backend {
	case config.BackendMemory:
		records, err := seed.LoadFile(cfg.Almanac.SeedFile, seed.Options{Checksum: cfg.Almanac.SeedChecksum})
		if err != nil {
			return nil, nil, err
		}
		store := memory.NewAlmanacStore(records)
		metrics.SetAlmanacRecords(len(records))
		logger.Info("Almanac loaded",
			zap.String("backend", cfg.Almanac.Backend),
			zap.String("seed", cfg.Almanac.SeedFile),
			zap.Int("records", len(records)),
		)
		if !cfg.Almanac.HotReload {
			return store, noop, nil
		}

		// A pinned checksum names one file; reloads accept whatever replaced it.
		reload := func(path string) ([]*entities.AlmanacRecord, error) {
			return seed.LoadFile(path, seed.Options{})
		}
		watcher, err := memory.NewSeedWatcher(store, cfg.Almanac.SeedFile, reload, logger)
		if err != nil {
			return nil, nil, pkgerrors.NewConfigurationError("cannot watch seed file").WithCause(err)
		}
		return store, watcher.Stop, nil

	case config.BackendSQLite, config.BackendPostgres, config.BackendMySQL:
		dialect, err := sqlstore.DialectFor(cfg.Almanac.Backend)
		if err != nil {
			return nil, nil, pkgerrors.NewConfigurationError(err.Error())
		}
		repo, err := sqlstore.Open(ctx, dialect, cfg.Almanac.DSN, logger)
		if err != nil {
			return nil, nil, pkgerrors.NewUnavailableError("almanac database").WithCause(err)
		}
		if n, err := repo.Count(ctx); err == nil {
			metrics.SetAlmanacRecords(n)
		}
		logger.Info("Almanac connected", zap.String("backend", dialect.Name))
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("Failed to close almanac database", zap.Error(err))
			}
		}, nil

	case config.BackendDynamoDB:
		repo := dynamodb.NewAlmanacRepository(
			ProvideDynamoDBClient(awsCfg, cfg),
			dynamodb.TableConfig{
				TableName:        cfg.DynamoDB.Table,
				LunarIndexName:   cfg.DynamoDB.LunarIndex,
				CutoverIndexName: cfg.DynamoDB.CutoverIndex,
			},
			logger,
		)
		logger.Info("Almanac connected",
			zap.String("backend", cfg.Almanac.Backend),
			zap.String("table", cfg.DynamoDB.Table),
		)
		return repo, noop, nil
	}
	return nil, nil, pkgerrors.NewConfigurationError(fmt.Sprintf("unknown almanac backend %q", cfg.Almanac.Backend))
}

// ProvideAlmanacRepository puts the timeout and circuit breaker in front of
// the store.
func ProvideAlmanacRepository(
	store ports.AlmanacStore,
	cfg *config.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) *decorators.ResilientAlmanacRepository {
	rc := decorators.DefaultResilienceConfig("almanac")
	rc.Timeout = cfg.Almanac.Timeout
	rc.MaxRequests = cfg.Breaker.MaxRequests
	rc.Interval = cfg.Breaker.Interval
	rc.OpenTimeout = cfg.Breaker.OpenTimeout
	rc.FailureThreshold = cfg.Breaker.FailureThreshold
	rc.MinRequests = cfg.Breaker.MinRequests
	return decorators.NewResilientAlmanacRepository(store, rc, metrics, logger)
}

// ProvideManseEngine checks the correspondence tables and creates the chart
// engine.
func ProvideManseEngine(almanac ports.AlmanacRepository, cfg *config.Config, logger *zap.Logger) (*services.ManseEngine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return services.NewManseEngine(almanac, services.EngineOptions{
		KeepCivilDayOnCutover: cfg.Almanac.KeepCivilDayOnCutover,
	}, logger.Named("engine")), nil
}

// ProvideEventPublisher publishes to EventBridge when events are enabled and
// to the log otherwise.
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return messaging.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(serviceName)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *pkgobs.Tracer {
	return pkgobs.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideInMemoryCache creates an in-memory cache
func ProvideInMemoryCache() (*InMemoryCache, func()) {
	cache := NewInMemoryCache()
	return cache, cache.Close
}

// ProvideComputeChartHandler creates the chart query handler
func ProvideComputeChartHandler(
	engine *services.ManseEngine,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *handlers.ComputeChartHandler {
	return handlers.NewComputeChartHandler(engine, publisher, metrics, logger)
}

// ProvideQueryBus creates the query bus with all handlers registered
func ProvideQueryBus(
	charts *handlers.ComputeChartHandler,
	cache *InMemoryCache,
	metrics *observability.Collector,
	cfg *config.Config,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.NewMetricsMiddleware(metrics),
		querybus.NewCachingMiddleware(cache, cfg.CacheTTL, metrics.RecordCache),
	)

	if err := queryBus.Register(queries.ComputeChartQuery{}, charts); err != nil {
		return nil, err
	}
	if err := queryBus.Register(queries.ComputeCompatibilityQuery{}, handlers.NewComputeCompatibilityHandler(charts)); err != nil {
		return nil, err
	}
	return queryBus, nil
}
