package prophet

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"QlikForecast/internal/domain/models"
	"QlikForecast/pkg/util"

	"gonum.org/v1/gonum/stat"
)

// seedStream separates the interval simulation stream from other uses of the seed.
const seedStream = 0x9e3779b97f4a7c15

// MakeFuture returns periods timestamps at the given frequency strictly after the last
// fitted observation. Month frequency yields month starts.
func (m *Model) MakeFuture(periods int, frequency string) ([]time.Time, error) {
	if !m.fitted {
		return nil, &ModelError{Op: "make_future", Msg: "call Fit first", Err: ErrNotFitted}
	}
	if periods < 0 {
		return nil, newError("make_future", "periods must not be negative")
	}

	out := make([]time.Time, 0, periods)
	cur := m.last
	for i := 1; i <= periods; i++ {
		switch frequency {
		case models.FrequencyHour:
			cur = m.last.Add(time.Duration(i) * time.Hour)
		case models.FrequencyDay:
			cur = m.last.AddDate(0, 0, i)
		case models.FrequencyMonth:
			cur = util.NextMonthStart(cur)
		default:
			return nil, newError("make_future", fmt.Sprintf("unsupported frequency %q", frequency))
		}
		out = append(out, cur)
	}
	return out, nil
}

// Predict evaluates the fitted model at ds.
func (m *Model) Predict(ds []time.Time) ([]models.ForecastRow, error) {
	if !m.fitted {
		return nil, &ModelError{Op: "predict", Msg: "call Fit first", Err: ErrNotFitted}
	}

	n := len(ds)
	t := make([]float64, n)
	trend := make([]float64, n)
	additive := make([]float64, n)
	components := make([][]float64, n)

	for i, d := range ds {
		t[i] = m.scaleTime(d)
		trend[i] = piecewiseLinear(t[i], m.k, m.m, m.changepoints, m.deltas) * m.yScale
		components[i] = make([]float64, len(m.seasonalities))
		for j, s := range m.seasonalities {
			v := 0.0
			for f, x := range fourier(d, s.period, s.order) {
				v += x * m.betas[j][f]
			}
			v *= m.yScale
			components[i][j] = v
			additive[i] += v
		}
	}

	yl, yu, tl, tu := m.intervals(t, trend, additive)

	rows := make([]models.ForecastRow, n)
	for i := range ds {
		comps := make([]models.Component, len(m.seasonalities))
		for j, s := range m.seasonalities {
			v := components[i][j]
			comps[j] = models.Component{Name: s.name, Value: v, Lower: v, Upper: v}
		}
		rows[i] = models.ForecastRow{
			DS:            ds[i],
			Trend:         trend[i],
			TrendLower:    tl[i],
			TrendUpper:    tu[i],
			YhatLower:     yl[i],
			YhatUpper:     yu[i],
			Yhat:          trend[i] + additive[i],
			Additive:      additive[i],
			AdditiveLower: additive[i],
			AdditiveUpper: additive[i],
			Components:    comps,
		}
	}
	return rows, nil
}

// intervals simulates future trend changes and observation noise, then takes quantiles.
func (m *Model) intervals(t, trend, additive []float64) (yl, yu, tl, tu []float64) {
	n := len(t)
	yl, yu = make([]float64, n), make([]float64, n)
	tl, tu = make([]float64, n), make([]float64, n)

	samples := m.cfg.UncertaintySamples
	if samples <= 0 || n == 0 {
		for i := range t {
			yl[i], yu[i] = trend[i]+additive[i], trend[i]+additive[i]
			tl[i], tu[i] = trend[i], trend[i]
		}
		return yl, yu, tl, tu
	}

	rng := rand.New(rand.NewPCG(m.cfg.Seed, seedStream))
	horizon := 0.0
	for _, v := range t {
		horizon = math.Max(horizon, v)
	}
	rate := float64(max(len(m.changepoints), 1)) * (horizon - 1)
	lambda := meanAbs(m.deltas) + 1e-8

	trendSamples := make([][]float64, n)
	yhatSamples := make([][]float64, n)
	for i := range t {
		trendSamples[i] = make([]float64, samples)
		yhatSamples[i] = make([]float64, samples)
	}

	for s := 0; s < samples; s++ {
		cps, deltas := m.changepoints, m.deltas
		if horizon > 1 {
			if k := poisson(rng, rate); k > 0 {
				cps = append(append(make([]float64, 0, len(cps)+k), cps...), futureChangepoints(rng, k, horizon)...)
				deltas = append(append(make([]float64, 0, len(deltas)+k), deltas...), laplaceSamples(rng, k, lambda)...)
			}
		}
		for i := range t {
			tr := piecewiseLinear(t[i], m.k, m.m, cps, deltas) * m.yScale
			trendSamples[i][s] = tr
			yhatSamples[i][s] = tr + additive[i] + rng.NormFloat64()*m.sigma*m.yScale
		}
	}

	lo := (1 - m.cfg.IntervalWidth) / 2
	hi := 1 - lo
	for i := range t {
		sort.Float64s(trendSamples[i])
		sort.Float64s(yhatSamples[i])
		tl[i] = stat.Quantile(lo, stat.Empirical, trendSamples[i], nil)
		tu[i] = stat.Quantile(hi, stat.Empirical, trendSamples[i], nil)
		yl[i] = stat.Quantile(lo, stat.Empirical, yhatSamples[i], nil)
		yu[i] = stat.Quantile(hi, stat.Empirical, yhatSamples[i], nil)
	}
	return yl, yu, tl, tu
}

func futureChangepoints(rng *rand.Rand, k int, horizon float64) []float64 {
	out := make([]float64, k)
	for i := range out {
		out[i] = 1 + rng.Float64()*(horizon-1)
	}
	sort.Float64s(out)
	return out
}

func meanAbs(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	abs := make([]float64, len(xs))
	for i, x := range xs {
		abs[i] = math.Abs(x)
	}
	return stat.Mean(abs, nil)
}
