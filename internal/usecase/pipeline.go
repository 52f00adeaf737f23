package usecase

import (
	"context"
	"fmt"
	"time"

	"QlikForecast/internal/domain/models"
	domrepo "QlikForecast/internal/domain/repository"
	domsvc "QlikForecast/internal/domain/service"
	xlogger "QlikForecast/pkg/logger"
)

// Monthly batches replace weekly seasonality with a custom one of this shape.
const (
	monthlySeasonalityName   = "monthly"
	monthlySeasonalityPeriod = 30.5
	monthlySeasonalityOrder  = 5
)

// ForecastError wraps a model failure together with the step that produced it.
type ForecastError struct {
	Stage string
	Err   error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast %s: %v", e.Stage, e.Err)
}

func (e *ForecastError) Unwrap() error { return e.Err }

// Forecast is the outcome of one pipeline run.
type Forecast struct {
	Config models.BatchConfig
	// Series is the full decoded input, including rows after the cutoff.
	Series   models.Series
	Cutoff   time.Time
	Training int
	Rows     []models.ForecastRow
}

// BuildModelSpec derives the per-request model configuration.
func BuildModelSpec(cfg models.BatchConfig) models.ModelSpec {
	spec := models.ModelSpec{ChangepointPriorScale: cfg.Changepoint}
	if models.NormalizeFrequency(cfg.Frequency) == models.FrequencyMonth {
		weekly := false
		spec.WeeklySeasonality = &weekly
		spec.Seasonalities = append(spec.Seasonalities, models.Seasonality{
			Name:         monthlySeasonalityName,
			Period:       monthlySeasonalityPeriod,
			FourierOrder: monthlySeasonalityOrder,
		})
	}
	return spec
}

// ForecastPipeline turns a decoded request into forecast rows.
type ForecastPipeline struct {
	newModel domsvc.ModelFactory
	metrics  domrepo.Metrics
	logger   *xlogger.Logger
}

func NewForecastPipeline(newModel domsvc.ModelFactory, metrics domrepo.Metrics, logger *xlogger.Logger) *ForecastPipeline {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ForecastPipeline{newModel: newModel, metrics: metrics, logger: logger}
}

// Run decodes the rows, truncates history at the cutoff, fits a fresh model and predicts
// cfg.Periods steps after the last training timestamp.
func (p *ForecastPipeline) Run(ctx context.Context, req *models.ForecastRequest) (*Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, err := DecodeSeries(req.Rows)
	if err != nil {
		return nil, err
	}
	cutoff, err := ResolveCutoff(series, req.Config)
	if err != nil {
		return nil, err
	}
	training := Truncate(series, cutoff)

	model, err := p.newModel(BuildModelSpec(req.Config))
	if err != nil {
		return nil, &ForecastError{Stage: "configure", Err: err}
	}

	start := time.Now()
	if err := model.Fit(training); err != nil {
		return nil, &ForecastError{Stage: "fit", Err: err}
	}
	p.observe("fit", start)

	future, err := model.MakeFuture(req.Config.Periods, models.NormalizeFrequency(req.Config.Frequency))
	if err != nil {
		return nil, &ForecastError{Stage: "future", Err: err}
	}

	start = time.Now()
	rows, err := model.Predict(future)
	if err != nil {
		return nil, &ForecastError{Stage: "predict", Err: err}
	}
	p.observe("predict", start)

	p.logger.Debug("forecast generated",
		xlogger.Int("rows", len(series)),
		xlogger.Int("training_rows", len(training)),
		xlogger.Time("cutoff", cutoff),
		xlogger.String("frequency", req.Config.Frequency),
		xlogger.Int("periods", req.Config.Periods),
	)

	return &Forecast{
		Config:   req.Config,
		Series:   series,
		Cutoff:   cutoff,
		Training: len(training),
		Rows:     rows,
	}, nil
}

// Raw returns the full forecast for the future horizon.
func (p *ForecastPipeline) Raw(ctx context.Context, req *models.ForecastRequest) ([]models.ForecastRow, error) {
	f, err := p.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return f.Rows, nil
}

// Reconciled returns one value per input row, preferring actuals over the forecast.
func (p *ForecastPipeline) Reconciled(ctx context.Context, req *models.ForecastRequest) ([]models.ReconciledRow, error) {
	f, err := p.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	column := f.Config.Yhat
	if column == "" {
		column = models.ColumnYhat
	}
	return Reconcile(f.Series, f.Rows, column)
}

func (p *ForecastPipeline) observe(op string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordLatency(op, time.Since(start).Seconds())
}
