//go:build wireinject
// +build wireinject

package di

import (
	"ComRisk/pkg/config"
	"ComRisk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Logging and metrics
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvidePriceStore,
		ProvideMarketStream,

		// Use cases
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaTicksHandler,
		ProvideRiskAnalyzer,
		ProvidePricesUseCase,
		ProvideBackfiller,

		// Background jobs
		ProvideJobStatusCache,
		ProvideJobQueue,

		// HTTP handler
		ProvideRiskHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
