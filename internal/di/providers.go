package di

import (
	"context"
	"fmt"
	"time"

	"CryptoCast/internal/auth"
	"CryptoCast/internal/domain/models"
	"CryptoCast/internal/domain/repository"
	domsvc "CryptoCast/internal/domain/service"
	"CryptoCast/internal/handler/api"
	internalrepo "CryptoCast/internal/repository"
	"CryptoCast/internal/service/forecast"
	"CryptoCast/internal/service/ratelimit"
	"CryptoCast/internal/usecase"
	"CryptoCast/pkg/cache"
	pkgch "CryptoCast/pkg/clickhouse"
	"CryptoCast/pkg/config"
	xhttp "CryptoCast/pkg/http"
	pkgkafka "CryptoCast/pkg/kafka"
	applogger "CryptoCast/pkg/logger"
	"CryptoCast/pkg/metrics"
	"CryptoCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSlot creates the key-value slot backing history and session.
func ProvideSlot(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if cfg.History.Backend != config.HistoryBackendRedis {
		l.Info("history backend: memory")
		return cache.NewMemoryCache(), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
		cache.WithRedisConnectRetry(cfg.Redis.ConnectRetry),
	)
	if err != nil {
		return nil, fmt.Errorf("redis slot: %w", err)
	}
	l.Info("history backend: redis",
		applogger.String("host", cfg.Redis.Host),
		applogger.Int("port", cfg.Redis.Port),
	)
	return rc, nil
}

// ProvideHTTPClient creates the outbound client used for the forecast service.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	opts := []xhttp.ClientOption{xhttp.WithTimeout(cfg.Forecast.Timeout)}
	if cfg.Forecast.RequestsPerSec > 0 {
		opts = append(opts, xhttp.WithRateLimit(cfg.Forecast.RequestsPerSec, cfg.Forecast.Burst))
	}
	return xhttp.NewClient(opts...)
}

// ProvideForecastClient creates the forecast service client.
func ProvideForecastClient(cfg *config.Config, client *xhttp.Client, l *applogger.Logger) domsvc.PredictionService {
	return forecast.New(cfg.Forecast.BaseURL, client, forecast.WithLogger(l))
}

// ProvideHistoryStore creates the history store. It is loaded when the app starts.
func ProvideHistoryStore(cfg *config.Config, slot cache.Service, l *applogger.Logger, m repository.Metrics) *internalrepo.HistoryStore {
	return internalrepo.NewHistoryStore(slot, cfg.History.Key, l, m)
}

// ProvideSession creates the session gate over the session slot.
func ProvideSession(cfg *config.Config, slot cache.Service, l *applogger.Logger) *auth.Session {
	return auth.NewSession(internalrepo.NewSessionStore(slot, cfg.Session.Key), l)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher announces predictions on Kafka, or drops them when Kafka is disabled.
func ProvideEventPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NoopPublisher{}
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideClickHouseClient creates a ClickHouse client with the archive schema, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.ArchiveSchema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvidePredictionArchive stores predictions in ClickHouse, or nowhere when disabled.
func ProvidePredictionArchive(cfg *config.Config, client *pkgch.Client) repository.PredictionArchive {
	if client == nil {
		return internalrepo.NoopArchive{}
	}
	return internalrepo.NewClickHouseArchive(client.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
}

// ProvidePredictionUseCase creates the prediction use case.
func ProvidePredictionUseCase(
	cfg *config.Config,
	session *auth.Session,
	forecastSvc domsvc.PredictionService,
	history *internalrepo.HistoryStore,
	pub repository.EventPublisher,
	archive repository.PredictionArchive,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.PredictionUseCase {
	return usecase.NewPredictionUseCase(session, models.DefaultCatalog(), forecastSvc, history,
		usecase.WithPublisher(pub),
		usecase.WithArchive(archive),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
		usecase.WithPageSizes(cfg.History.RecentCount, cfg.History.PreviewCount),
	)
}

// ProvideRateLimiter creates the per-client limiter for prediction submissions.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSec,
		ratelimit.WithIdleTTL(cfg.Server.RateLimit.IdleTTL),
	)
}

// ProvideHTTPHandler registers every API route.
func ProvideHTTPHandler(
	l *applogger.Logger,
	slot cache.Service,
	archive repository.PredictionArchive,
	session *auth.Session,
	uc *usecase.PredictionUseCase,
	limiter *ratelimit.Limiter,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewHealthHandler(l, slot, archive),
		api.NewAuthHandler(l, session),
		api.NewPredictionsHandler(l, uc, limiter.Middleware()),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	slot cache.Service,
	history *internalrepo.HistoryStore,
	session *auth.Session,
	pub repository.EventPublisher,
	archive repository.PredictionArchive,
	chClient *pkgch.Client,
) *server.App {
	app := server.New(cfg, l, handler, history, session)
	// closed in this order on shutdown
	app.AddCloser("publisher", pub)
	app.AddCloser("archive", archive)
	if chClient != nil {
		app.AddCloser("clickhouse", chClient)
	}
	app.AddCloser("slot", slot)
	return app
}
