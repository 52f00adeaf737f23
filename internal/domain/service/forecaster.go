package service

import (
	"time"

	"QlikForecast/internal/domain/models"
)

// ForecastModel is a single-use forecasting model: fit once, then predict.
type ForecastModel interface {
	Fit(history models.Series) error
	// MakeFuture returns exactly periods timestamps strictly after the fitted history.
	MakeFuture(periods int, frequency string) ([]time.Time, error)
	Predict(ds []time.Time) ([]models.ForecastRow, error)
}

// ModelFactory builds a fresh model for one request.
type ModelFactory func(spec models.ModelSpec) (ForecastModel, error)
