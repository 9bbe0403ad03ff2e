package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "ComRisk/internal/domain/repository"
	domsvc "ComRisk/internal/domain/service"
	"ComRisk/internal/handler/api"
	mid "ComRisk/internal/middleware"
	internalrepo "ComRisk/internal/repository"
	icache "ComRisk/internal/service/cache"
	"ComRisk/internal/service/marketdata"
	"ComRisk/internal/services/garch"
	"ComRisk/internal/services/pricing"
	risksvc "ComRisk/internal/services/risk"
	"ComRisk/internal/usecase"
	pkgcache "ComRisk/pkg/cache"
	pkgch "ComRisk/pkg/clickhouse"
	"ComRisk/pkg/config"
	pkgkafka "ComRisk/pkg/kafka"
	applogger "ComRisk/pkg/logger"
	"ComRisk/pkg/metrics"
	"ComRisk/pkg/queue"
	"ComRisk/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema: raw ticks plus the daily closes the estimators read.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".ticks_raw (" +
			"ts DateTime64(3), symbol String, price Float64, volume Float64, " +
			"source LowCardinality(String), event_id String, seq UInt64" +
			") ENGINE=MergeTree ORDER BY (symbol, ts)",
		"CREATE TABLE IF NOT EXISTS " + db + ".daily_closes (" +
			"day Date, symbol String, close Float64" +
			") ENGINE=ReplacingMergeTree ORDER BY (symbol, day)",
		"CREATE MATERIALIZED VIEW IF NOT EXISTS " + db + ".daily_closes_mv TO " + db + ".daily_closes AS " +
			"SELECT toDate(ts) AS day, symbol, argMax(price, ts) AS close " +
			"FROM " + db + ".ticks_raw GROUP BY day, symbol",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
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

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideTickStorage creates ClickHouse storage repository.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) domrepo.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".ticks_raw")
}

// ProvideTickPublisher creates Kafka publisher repository.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaTicksHandler registers handler for the ticks topic.
func ProvideKafkaTicksHandler(store domrepo.Storage, metrics domrepo.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideMarketStream creates the market data WebSocket stream.
func ProvideMarketStream(cfg *config.Config) domrepo.MarketStream {
	return marketdata.New(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		cfg.MarketData.Symbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
	)
}

// ProvideTickProcessor creates the tick processor use case.
func ProvideTickProcessor(
	pub domrepo.Publisher,
	store domrepo.Storage,
	metrics domrepo.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTickCollector creates the tick collector use case.
func ProvideTickCollector(
	stream domrepo.MarketStream,
	processor *usecase.TickProcessor,
	metrics domrepo.Metrics,
) *usecase.TickCollector {
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, metrics, pipe)
}

// ProvidePriceStore creates the daily-closes read repository.
func ProvidePriceStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.PriceStore {
	store := internalrepo.NewCHPriceStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideRiskAnalyzer wires the estimators behind the risk use case.
func ProvideRiskAnalyzer(store domrepo.PriceStore, cfg *config.Config, l *applogger.Logger) *usecase.RiskAnalyzer {
	mcNew := func(seed int64) domsvc.MonteCarloEstimator {
		return risksvc.NewMonteCarlo(seed)
	}
	return usecase.NewRiskAnalyzer(
		store,
		risksvc.NewHistorical(),
		mcNew,
		pricing.NewBlackScholes(),
		garch.NewEngine(cfg.Risk.GarchScale, l),
		cfg.Risk.TrainFraction,
		l,
	)
}

// ProvideBackfiller creates the daily-closes backfill use case. Returns nil
// when no REST history endpoint is configured.
func ProvideBackfiller(cfg *config.Config, chClient *pkgch.Client, l *applogger.Logger) *usecase.Backfiller {
	if cfg.MarketData.RestURL == "" {
		return nil
	}
	fetcher := marketdata.NewHistoryFetcher(cfg.MarketData.RestURL, cfg.MarketData.APIKey, 30*time.Second)
	writer := internalrepo.NewCHPriceStore(chClient)
	writer.SetLogger(l)
	return usecase.NewBackfiller(fetcher, writer, cfg.Risk.LookbackDays, l)
}

// ProvidePricesUseCase creates the daily closes use case.
func ProvidePricesUseCase(store domrepo.PriceStore) *usecase.PricesUseCase {
	return usecase.NewPricesUseCase(store)
}

// ProvideJobStatusCache creates the cache holding walk-forward job records.
// In-memory when Redis is disabled, so inline runs stay pollable too.
func ProvideJobStatusCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Risk.Redis.Enabled {
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(1000)), nil
	}

	host, port, err := splitAddr(cfg.Risk.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}

	status, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Risk.Redis.Password),
		pkgcache.WithRedisDB(cfg.Risk.Redis.DB),
		pkgcache.WithRedisPrefix("comrisk:jobs"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return status, nil
}

// ProvideJobQueue creates the Redis-backed walk-forward job queue.
func ProvideJobQueue(cfg *config.Config, status pkgcache.Service, analyzer *usecase.RiskAnalyzer, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Risk.Redis.Enabled || status == nil {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Risk.Redis.Addr,
		Password: cfg.Risk.Redis.Password,
		DB:       cfg.Risk.Redis.DB,
	})

	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    2,
		QueueSize:  64,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, client, queue.ModeProducerConsumer)

	job := usecase.NewWalkForwardJob(analyzer, status, cfg.Risk.WalkForwardTTL, l)
	q.RegisterJob(job)

	return q
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

// ProvideRiskHandler creates the HTTP handler for the risk API.
func ProvideRiskHandler(
	cfg *config.Config,
	analyzer *usecase.RiskAnalyzer,
	prices *usecase.PricesUseCase,
	jobQueue *queue.RedisQueue,
	jobStatus pkgcache.Service,
	l *applogger.Logger,
) *api.RiskEchoHandler {
	h := api.NewRiskEchoHandler(l, analyzer, prices)
	var respCache icache.BytesCache = icache.NewTTLCache()
	if cfg.Risk.Redis.Enabled {
		respCache = icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Risk.Redis.Addr,
			Password: cfg.Risk.Redis.Password,
			DB:       cfg.Risk.Redis.DB,
			Prefix:   "risk:resp",
		})
	}
	h.SetCache(respCache, cfg.Risk.CacheTTL)
	if jobStatus != nil {
		h.SetJobStatus(jobStatus, cfg.Risk.WalkForwardTTL)
	}
	if jobQueue != nil {
		h.SetJobQueue(jobQueue)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	handler *api.RiskEchoHandler,
	jobQueue *queue.RedisQueue,
	backfiller *usecase.Backfiller,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.MetricsHook{}))
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	if jobQueue != nil {
		app.SetJobQueue(jobQueue)
	}
	if backfiller != nil {
		app.SetBackfiller(backfiller)
	}
	if collector != nil {
		app.TickProc = collector.Processor()
	}
	return app
}
