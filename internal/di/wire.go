//go:build wireinject
// +build wireinject

package di

import (
	"QlikForecast/pkg/config"
	"QlikForecast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Forecasting
		ProvideModelFactory,
		ProvideForecastPipeline,

		// HTTP
		ProvideForecastHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
