package di

import (
	"fmt"

	"QlikForecast/internal/domain/repository"
	domsvc "QlikForecast/internal/domain/service"
	"QlikForecast/internal/handler/api"
	"QlikForecast/internal/services/prophet"
	"QlikForecast/internal/usecase"
	"QlikForecast/pkg/config"
	xhttp "QlikForecast/pkg/http"
	applogger "QlikForecast/pkg/logger"
	"QlikForecast/pkg/metrics"
	"QlikForecast/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder. With metrics disabled it records
// into a private registry that is never exposed.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.New(prometheus.NewRegistry())
	}
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideModelFactory builds forecasting models with the configured hyper-parameters.
func ProvideModelFactory(cfg *config.Config) domsvc.ModelFactory {
	fc := cfg.Forecast
	return prophet.NewFactory(
		prophet.WithChangepoints(fc.NChangepoints, fc.ChangepointRange),
		prophet.WithSeasonalityPriorScale(fc.SeasonalityPriorScale),
		prophet.WithUncertainty(fc.IntervalWidth, fc.UncertaintySamples),
		prophet.WithSeed(fc.Seed),
	)
}

// ProvideForecastPipeline creates the forecast use case.
func ProvideForecastPipeline(factory domsvc.ModelFactory, m repository.Metrics, l *applogger.Logger) *usecase.ForecastPipeline {
	return usecase.NewForecastPipeline(factory, m, l)
}

// ProvideForecastHandler creates the HTTP handler for the forecast routes.
func ProvideForecastHandler(l *applogger.Logger, p *usecase.ForecastPipeline, m repository.Metrics) xhttp.Handler {
	return api.NewForecastEchoHandler(l, p, m)
}

// ProvideHTTPServer creates the Echo server from config.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithBodyLimit(cfg.Server.BodyLimit),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithSlowThreshold(cfg.Server.SlowRequestThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, l *applogger.Logger) *server.App {
	return server.New(cfg, srv, l)
}
