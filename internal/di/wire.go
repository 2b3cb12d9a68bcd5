//go:build wireinject
// +build wireinject

package di

import (
	"StockTerm/pkg/config"
	"StockTerm/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideStore,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideQuotesClient,

		// Repositories and adapters
		ProvideHoldingsRepository,
		ProvideShortcutsRepository,
		ProvideQuoteHistory,
		ProvideEventPipeline,
		ProvideSymbolLookup,
		ProvideMatcher,
		ProvidePredictor,

		// Use cases
		ProvideQuoteBook,
		ProvideQuotesUseCase,
		ProvidePortfolioUseCase,
		ProvideSearchUseCase,
		ProvideHistoryUseCase,
		ProvidePredictUseCase,
		ProvideNewsUseCase,
		ProvideHub,
		ProvideQuoteRefresher,

		// HTTP and application server
		ProvideAPILimiter,
		ProvidePredictLimiter,
		ProvideNewsLimiter,
		ProvideHandlers,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
