package di

import (
    "context"
    "fmt"
    "time"

    "PulseWatch/internal/domain/models"
    "PulseWatch/internal/domain/repository"
    "PulseWatch/internal/handler/api"
    mid "PulseWatch/internal/middleware"
    internalrepo "PulseWatch/internal/repository"
    "PulseWatch/internal/service/detector"
    "PulseWatch/internal/service/simulator"
    "PulseWatch/internal/usecase"
    "PulseWatch/pkg/cache"
    pkgch "PulseWatch/pkg/clickhouse"
    "PulseWatch/pkg/config"
    xhttp "PulseWatch/pkg/http"
    pkgkafka "PulseWatch/pkg/kafka"
    applogger "PulseWatch/pkg/logger"
    "PulseWatch/pkg/metrics"
    "PulseWatch/pkg/server"
)

// ProvideLogger creates the application logger. When a Kafka producer is
// available, error logs are aggregated and shipped to the logs topic.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
    level := "info"
    if cfg.Environment == "development" {
        level = "debug"
    }
    l, err := applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
    if err != nil {
        return nil, fmt.Errorf("logger: %w", err)
    }
    if producer != nil {
        l.AddCollector(&applogger.CollectionConfig{
            TimeInterval:   30 * time.Second,
            CountThreshold: 100,
            Topic:          cfg.Kafka.Topic + ".logs",
            Publisher:      kafkaLogSink{producer},
        })
    }
    return l, nil
}

// kafkaLogSink adapts the Kafka producer to the log collector's publisher.
type kafkaLogSink struct {
    p *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
    return s.p.Publish(ctx, topic, nil, payload)
}

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// backend is selected. Returns nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
    if cfg.Backend.Type != "clickhouse" {
        return nil, nil
    }

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

    // Initialize schema
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    db := cfg.ClickHouse.Database
    if err := client.InitSchema(ctx, []string{
        "CREATE DATABASE IF NOT EXISTS " + db,
        "CREATE TABLE IF NOT EXISTS " + db + ".anomalies (" +
            "event_id String, type String, instrument_id String, display_name String, " +
            "value String, description String, occurred_at DateTime64(3), " +
            "severity String, market String) " +
            "ENGINE=MergeTree ORDER BY (market, occurred_at, event_id)",
    }); err != nil {
        _ = client.Close() // cannot log here (DI layer no logger); propagate error
        return nil, fmt.Errorf("clickhouse schema: %w", err)
    }

    return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the kafka backend is
// selected. Returns nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
    if cfg.Backend.Type != "kafka" {
        return nil, nil
    }

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
func ProvideMetrics() repository.Metrics {
    return metrics.New()
}

// ProvideArchive creates the ClickHouse anomaly archive.
func ProvideArchive(chClient *pkgch.Client, cfg *config.Config) repository.Archive {
    if chClient == nil {
        return nil
    }
    return internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database+".anomalies")
}

// ProvidePublisher creates the Kafka anomaly publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
    if producer == nil {
        return nil
    }
    return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideEventSource selects the anomaly event source from config: the
// built-in simulator or the detector WebSocket push feed.
func ProvideEventSource(cfg *config.Config) repository.EventSource {
    if cfg.Source.Type == "push" {
        return detector.New(
            cfg.Source.Push.APIKey,
            cfg.Source.Push.WebSocketURL,
            cfg.Source.Push.ReconnectDelay,
            cfg.Source.Push.PingInterval,
        )
    }
    return simulator.New(cfg.Source.Sim.Interval, cfg.Source.Sim.Probability, cfg.Source.Sim.Burst)
}

// ProvideCache creates the cache service used by the history reader.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
    switch cfg.Cache.Type {
    case "redis":
        return cache.NewRedisCache(
            cache.WithRedisHost(cfg.Cache.Redis.Host),
            cache.WithRedisPort(cfg.Cache.Redis.Port),
            cache.WithRedisPassword(cfg.Cache.Redis.Password),
            cache.WithRedisDB(cfg.Cache.Redis.DB),
        )
    case "layered":
        rc, err := cache.NewRedisCache(
            cache.WithRedisHost(cfg.Cache.Redis.Host),
            cache.WithRedisPort(cfg.Cache.Redis.Port),
            cache.WithRedisPassword(cfg.Cache.Redis.Password),
            cache.WithRedisDB(cfg.Cache.Redis.DB),
        )
        if err != nil {
            return nil, err
        }
        return cache.NewLayeredCache(rc), nil
    default:
        return cache.NewMemoryCache(), nil
    }
}

// ProvideMarketState creates the market selection store.
func ProvideMarketState(cfg *config.Config) *usecase.MarketStateStore {
    return usecase.NewMarketStateStore(models.Market(cfg.Source.Market), models.Range1D)
}

// ProvideFeed creates the in-memory anomaly feed.
func ProvideFeed(cfg *config.Config) *usecase.AnomalyFeed {
    return usecase.NewAnomalyFeed(cfg.Pipeline.FeedCap)
}

// ProvideNotificationManager creates the notification manager and attaches
// it as the feed's append watcher.
func ProvideNotificationManager(cfg *config.Config, feed *usecase.AnomalyFeed) *usecase.NotificationManager {
    m := usecase.NewNotificationManager(cfg.Pipeline.NotificationTTL)
    feed.SetWatcher(m)
    return m
}

// ProvideRuleEngine creates the alert rule engine.
func ProvideRuleEngine() *usecase.AlertRuleEngine {
    return usecase.NewAlertRuleEngine()
}

// ProvidePageFetcher creates the remote feed page fetcher.
func ProvidePageFetcher(cfg *config.Config) repository.PageFetcher {
    return internalrepo.NewFeedAPI(cfg.Feed.BaseURL, cfg.Feed.Timeout)
}

// ProvideFeedLoader creates the cursor-paginated feed loader.
func ProvideFeedLoader(fetcher repository.PageFetcher, cfg *config.Config) *usecase.FeedLoader {
    return usecase.NewFeedLoader(fetcher, cfg.Feed.PageSize)
}

// ProvideAnomalyHistory creates the archived anomaly reader.
func ProvideAnomalyHistory(archive repository.Archive, c cache.Service, cfg *config.Config) *usecase.AnomalyHistory {
    return usecase.NewAnomalyHistory(archive, c, cfg.Cache.HistoryTTL)
}

// ProvideEventProcessor creates the event processor use case.
func ProvideEventProcessor(
    feed *usecase.AnomalyFeed,
    pub repository.Publisher,
    archive repository.Archive,
    metrics repository.Metrics,
    cfg *config.Config,
) *usecase.EventProcessor {
    return usecase.NewEventProcessor(feed, pub, archive, metrics, cfg.Backend.Type)
}

// ProvideEventCollector creates the event collector use case.
func ProvideEventCollector(
    source repository.EventSource,
    processor *usecase.EventProcessor,
    metrics repository.Metrics,
    cfg *config.Config,
) *usecase.EventCollector {
    // Build middleware pipeline between source and sink
    pipe := mid.NewEventPipeline(processor, metrics,
        mid.WithMaxRPS(cfg.Pipeline.MaxRPS),
        mid.WithBufferSize(cfg.Pipeline.BufferSize),
    )
    return usecase.NewEventCollector(source, processor, metrics, pipe, models.Market(cfg.Source.Market))
}

// ProvideHandler creates the dashboard HTTP handler.
func ProvideHandler(
    logger *applogger.Logger,
    state *usecase.MarketStateStore,
    feed *usecase.AnomalyFeed,
    rules *usecase.AlertRuleEngine,
    notify *usecase.NotificationManager,
    loader *usecase.FeedLoader,
    history *usecase.AnomalyHistory,
    collector *usecase.EventCollector,
) xhttp.Handler {
    return api.NewDashboardEchoHandler(logger, state, feed, rules, notify, loader, history, collector)
}

// ProvideApp creates the application server.
func ProvideApp(
    cfg *config.Config,
    logger *applogger.Logger,
    collector *usecase.EventCollector,
    notify *usecase.NotificationManager,
    chClient *pkgch.Client,
    handler xhttp.Handler,
) *server.App {
    return server.New(cfg, logger, collector, notify, chClient, handler)
}
