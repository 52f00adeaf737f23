package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"QlikForecast/internal/domain/models"
	domsvc "QlikForecast/internal/domain/service"
	"QlikForecast/pkg/util"
)

// fakeModel records its training data and predicts ds-derived values.
type fakeModel struct {
	spec    models.ModelSpec
	fitted  models.Series
	fitErr  error
	periods int
	freq    string
}

func (m *fakeModel) Fit(history models.Series) error {
	if m.fitErr != nil {
		return m.fitErr
	}
	m.fitted = append(models.Series(nil), history...)
	return nil
}

func (m *fakeModel) MakeFuture(periods int, frequency string) ([]time.Time, error) {
	m.periods, m.freq = periods, frequency
	last := m.fitted[0].DS
	for _, p := range m.fitted {
		if p.DS.After(last) {
			last = p.DS
		}
	}
	out := make([]time.Time, periods)
	for i := range out {
		last = util.NextMonthStart(last)
		out[i] = last
	}
	return out, nil
}

func (m *fakeModel) Predict(ds []time.Time) ([]models.ForecastRow, error) {
	rows := make([]models.ForecastRow, len(ds))
	for i, d := range ds {
		v := float64(d.Month())
		rows[i] = models.ForecastRow{DS: d, Yhat: v, YhatLower: v - 1, YhatUpper: v + 1, Trend: v}
	}
	return rows, nil
}

type recordingMetrics struct {
	latencies map[string]int
}

func (r *recordingMetrics) RecordRequest(string, string) {}
func (r *recordingMetrics) RecordError(string) {}
func (r *recordingMetrics) RecordRows(string, int) {}
func (r *recordingMetrics) RecordLatency(op string, _ float64) {
	if r.latencies == nil {
		r.latencies = map[string]int{}
	}
	r.latencies[op]++
}

func newFakePipeline(model *fakeModel) (*ForecastPipeline, *recordingMetrics) {
	metrics := &recordingMetrics{}
	factory := func(spec models.ModelSpec) (domsvc.ForecastModel, error) {
		model.spec = spec
		return model, nil
	}
	return NewForecastPipeline(factory, metrics, nil), metrics
}

func ptr(v float64) *float64 { return &v }

// monthlyRows builds n month-start rows from 2022-01; measures after the first known are null.
func monthlyRows(n, known int) []models.Observation {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Observation, n)
	for i := range rows {
		rows[i] = models.Observation{
			Date:       ptr(util.ToSerialDate(start.AddDate(0, i, 0))),
			HasDate:    true,
			HasMeasure: true,
		}
		if i < known {
			rows[i].Measure = ptr(float64(100 + i))
		}
	}
	return rows
}

func defaultConfig() models.BatchConfig {
	return models.BatchConfig{Frequency: models.FrequencyMonth, Periods: 3, Changepoint: 0.05, Yhat: models.ColumnYhat}
}

func TestDecodeSeriesValidation(t *testing.T) {
	if _, err := DecodeSeries(nil); !errors.Is(err, models.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}

	rows := monthlyRows(3, 3)
	rows[1].HasMeasure = false
	_, err := DecodeSeries(rows)
	var verr *models.ValidationError
	if !errors.As(err, &verr) || verr.Row != 2 || verr.Field != "measure" {
		t.Fatalf("expected measure error on row 2, got %v", err)
	}

	rows = monthlyRows(3, 3)
	rows[0].HasDate = false
	if _, err := DecodeSeries(rows); !errors.As(err, &verr) || verr.Field != "date" {
		t.Fatalf("expected date error, got %v", err)
	}
}

func TestDecodeSeriesKeepsNonNumericDates(t *testing.T) {
	rows := monthlyRows(3, 3)
	rows[1].Date = nil

	series, err := DecodeSeries(rows)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(series) != 3 || series[1].HasDS || !series[0].HasDS || !series[2].HasDS {
		t.Fatalf("unexpected series %+v", series)
	}
	if want := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC); !series[2].DS.Equal(want) {
		t.Fatalf("ds %v want %v", series[2].DS, want)
	}
}

func TestResolveCutoff(t *testing.T) {
	series, _ := DecodeSeries(monthlyRows(6, 4))
	series[3].Y = ptr(0)

	cutoff, err := ResolveCutoff(series, defaultConfig())
	if err != nil {
		t.Fatalf("cutoff: %v", err)
	}
	if want := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC); !cutoff.Equal(want) {
		t.Fatalf("cutoff %v want %v", cutoff, want)
	}

	cfg := defaultConfig()
	cfg.MaxDate = ptr(util.ToSerialDate(time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC)))
	if cutoff, _ = ResolveCutoff(series, cfg); cutoff.Month() != time.February {
		t.Fatalf("explicit max_date must win, got %v", cutoff)
	}

	cfg.MaxDate = ptr(0)
	if cutoff, _ = ResolveCutoff(series, cfg); cutoff.Month() != time.March {
		t.Fatalf("zero max_date must count as absent, got %v", cutoff)
	}

	empty, _ := DecodeSeries(monthlyRows(3, 0))
	if _, err := ResolveCutoff(empty, defaultConfig()); !errors.Is(err, ErrNoActuals) {
		t.Fatalf("expected ErrNoActuals, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	series, _ := DecodeSeries(monthlyRows(6, 6))
	series[2].HasDS = false
	cutoff := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)

	out := Truncate(series, cutoff)
	if len(out) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(out))
	}
	for _, p := range out {
		if p.DS.After(cutoff) || !p.HasDS {
			t.Fatalf("row %v must not be kept", p.DS)
		}
	}
}

func TestBuildModelSpec(t *testing.T) {
	spec := BuildModelSpec(defaultConfig())
	if spec.WeeklySeasonality == nil || *spec.WeeklySeasonality {
		t.Fatalf("monthly batches must disable weekly seasonality")
	}
	if len(spec.Seasonalities) != 1 || spec.Seasonalities[0].Period != 30.5 || spec.Seasonalities[0].FourierOrder != 5 {
		t.Fatalf("unexpected seasonalities %+v", spec.Seasonalities)
	}

	cfg := defaultConfig()
	cfg.Frequency = models.FrequencyDay
	cfg.Changepoint = 0.3
	spec = BuildModelSpec(cfg)
	if spec.WeeklySeasonality != nil || len(spec.Seasonalities) != 0 || spec.ChangepointPriorScale != 0.3 {
		t.Fatalf("unexpected daily spec %+v", spec)
	}
}

func TestRunTrainsOnlyUpToCutoff(t *testing.T) {
	model := &fakeModel{}
	p, metrics := newFakePipeline(model)

	req := &models.ForecastRequest{Config: defaultConfig(), Rows: monthlyRows(24, 21)}
	f, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(model.fitted) != 21 {
		t.Fatalf("expected 21 training rows, got %d", len(model.fitted))
	}
	for _, pt := range model.fitted {
		if pt.DS.After(f.Cutoff) {
			t.Fatalf("row %v after cutoff %v reached Fit", pt.DS, f.Cutoff)
		}
	}
	if len(f.Rows) != 3 || model.periods != 3 || model.freq != models.FrequencyMonth {
		t.Fatalf("unexpected horizon rows=%d periods=%d freq=%s", len(f.Rows), model.periods, model.freq)
	}
	for _, r := range f.Rows {
		if !r.DS.After(f.Cutoff) {
			t.Fatalf("forecast row %v not after cutoff", r.DS)
		}
	}
	if metrics.latencies["fit"] != 1 || metrics.latencies["predict"] != 1 {
		t.Fatalf("expected fit and predict latencies, got %v", metrics.latencies)
	}
}

func TestRunWrapsModelFailures(t *testing.T) {
	p, _ := newFakePipeline(&fakeModel{fitErr: errors.New("too few rows")})

	_, err := p.Run(context.Background(), &models.ForecastRequest{Config: defaultConfig(), Rows: monthlyRows(3, 3)})
	var ferr *ForecastError
	if !errors.As(err, &ferr) || ferr.Stage != "fit" {
		t.Fatalf("expected ForecastError at fit, got %v", err)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	p, _ := newFakePipeline(&fakeModel{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx, &models.ForecastRequest{Config: defaultConfig(), Rows: monthlyRows(3, 3)}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReconciledPrefersActuals(t *testing.T) {
	p, _ := newFakePipeline(&fakeModel{})
	rows := monthlyRows(24, 21)
	rows[5].Measure = ptr(0)

	out, err := p.Reconciled(context.Background(), &models.ForecastRequest{Config: defaultConfig(), Rows: rows})
	if err != nil {
		t.Fatalf("reconciled: %v", err)
	}
	if len(out) != 24 {
		t.Fatalf("expected one value per input row, got %d", len(out))
	}
	for i := 0; i < 21; i++ {
		if i == 5 {
			if out[i].Value != nil {
				t.Fatalf("zero actual without forecast must be null, got %v", *out[i].Value)
			}
			continue
		}
		if out[i].Value == nil || *out[i].Value != float64(100+i) {
			t.Fatalf("row %d: expected actual %d, got %v", i, 100+i, out[i].Value)
		}
	}
	// months 22..24 are Oct..Dec 2023
	for i, want := range []float64{10, 11, 12} {
		got := out[21+i].Value
		if got == nil || *got != want {
			t.Fatalf("row %d: expected forecast %v, got %v", 21+i, want, got)
		}
	}
}

func TestReconcileColumnSelection(t *testing.T) {
	ds := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	series := models.Series{{DS: ds, HasDS: true}, {HasDS: false, Y: ptr(4)}, {HasDS: false}}
	forecast := []models.ForecastRow{{DS: ds, Yhat: 5, YhatLower: 4, YhatUpper: 6}}

	out, err := Reconcile(series, forecast, models.ColumnYhatUpper)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if *out[0].Value != 6 || *out[1].Value != 4 || out[2].Value != nil {
		t.Fatalf("unexpected values %+v", out)
	}

	b, _ := json.Marshal(out)
	if string(b) != `[{"yhat_upper":6},{"yhat_upper":4},{"yhat_upper":null}]` {
		t.Fatalf("unexpected json %s", b)
	}

	if _, err := Reconcile(series, forecast, "trend"); err == nil {
		t.Fatalf("expected error for unsupported column")
	}
}
