//go:build wireinject
// +build wireinject

package di

import (
	"PulseCast/pkg/config"
	"PulseCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Market data
		ProvideStream,
		ProvideMarketData,

		// Sinks and cache
		ProvideCache,
		ProvideForecastStore,
		ProvideForecastPublisher,

		// Pipeline
		ProvideForecastUseCase,
		ProvideScanner,

		// API surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
