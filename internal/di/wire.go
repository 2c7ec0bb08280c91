//go:build wireinject
// +build wireinject

package di

import (
	"PulseWatch/pkg/config"
	"PulseWatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
    wire.Build(
        // Metrics
        ProvideMetrics,

        // Infrastructure clients
        ProvideClickHouseClient,
        ProvideKafkaProducer,
        ProvideCache,
        ProvideLogger,

        // Repositories
        ProvideArchive,
        ProvidePublisher,
        ProvideEventSource,
        ProvidePageFetcher,

        // Use cases
        ProvideMarketState,
        ProvideFeed,
        ProvideNotificationManager,
        ProvideRuleEngine,
        ProvideFeedLoader,
        ProvideAnomalyHistory,
        ProvideEventProcessor,
        ProvideEventCollector,

        // HTTP handler and application server
        ProvideHandler,
        ProvideApp,
    )
    return &server.App{}, nil
}
