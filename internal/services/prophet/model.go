package prophet

import (
	"math"
	"sort"
	"time"

	"QlikForecast/internal/domain/models"

	"gonum.org/v1/gonum/mat"
)

const (
	trendPriorScale = 5.0
	maxIterations   = 200
	tolerance       = 1e-9
	// deltaFloor bounds the reweighting of the Laplace prior near zero.
	deltaFloor = 1e-6
	// minSigma2 is the residual variance floor in scaled units.
	minSigma2 = 1e-4
)

// Model is fitted once and then used for predictions. It is not safe for concurrent Fit calls.
type Model struct {
	cfg    Config
	custom []seasonality

	fitted        bool
	start         time.Time
	last          time.Time
	tScale        float64 // seconds
	yScale        float64
	seasonalities []seasonality
	changepoints  []float64

	k      float64
	m      float64
	deltas []float64
	betas  [][]float64
	sigma  float64
}

// New creates an unfitted model.
func New(opts ...Option) *Model {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Model{cfg: cfg}
}

type observation struct {
	ds time.Time
	y  float64
}

// Fit estimates the model on the rows of history that carry both a timestamp and a value.
// Rows are sorted by time; duplicate timestamps are kept. Future dates start after the
// latest dated row, whether or not it has a value.
func (m *Model) Fit(history models.Series) error {
	if m.fitted {
		return &ModelError{Op: "fit", Msg: "refit", Err: ErrAlreadyFitted}
	}

	var last time.Time
	dated := false
	obs := make([]observation, 0, len(history))
	for _, p := range history {
		if !p.HasDS {
			continue
		}
		if !dated || p.DS.After(last) {
			last, dated = p.DS, true
		}
		if p.Y == nil || math.IsNaN(*p.Y) {
			continue
		}
		obs = append(obs, observation{ds: p.DS, y: *p.Y})
	}
	if len(obs) < 2 {
		return newError("fit", "history has fewer than 2 rows with a value")
	}
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].ds.Before(obs[j].ds) })

	m.start = obs[0].ds
	m.last = last
	m.tScale = secondsBetween(m.start, obs[len(obs)-1].ds)
	if m.tScale <= 0 {
		return newError("fit", "history spans a single timestamp")
	}

	m.yScale = 0
	for _, o := range obs {
		m.yScale = math.Max(m.yScale, math.Abs(o.y))
	}
	if m.yScale == 0 {
		m.yScale = 1
	}

	t := make([]float64, len(obs))
	y := mat.NewVecDense(len(obs), nil)
	minSpacing := math.Inf(1)
	for i, o := range obs {
		t[i] = m.scaleTime(o.ds)
		y.SetVec(i, o.y/m.yScale)
		if i > 0 {
			if d := secondsBetween(obs[i-1].ds, o.ds); d > 0 {
				minSpacing = math.Min(minSpacing, d)
			}
		}
	}

	m.seasonalities = m.resolveSeasonalities(m.tScale/secondsPerDay, minSpacing/secondsPerDay)
	m.changepoints = placeChangepoints(t, m.cfg.NChangepoints, m.cfg.ChangepointRange)

	ds := make([]time.Time, len(obs))
	for i, o := range obs {
		ds[i] = o.ds
	}
	X := m.design(ds, t)
	precision, lap := m.priors()

	beta, sigma, err := fitMAP(X, y, precision, lap)
	if err != nil {
		return err
	}
	m.unpack(beta)
	m.sigma = sigma
	m.fitted = true
	return nil
}

func (m *Model) scaleTime(ds time.Time) float64 {
	return secondsBetween(m.start, ds) / m.tScale
}

func secondsBetween(a, b time.Time) float64 {
	return float64(b.Unix()-a.Unix()) + float64(b.Nanosecond()-a.Nanosecond())/1e9
}

// width is the number of design columns.
func (m *Model) width() int {
	w := 2 + len(m.changepoints)
	for _, s := range m.seasonalities {
		w += 2 * s.order
	}
	return w
}

// design lays out columns as intercept, slope, changepoint ramps, seasonal blocks.
func (m *Model) design(ds []time.Time, t []float64) *mat.Dense {
	X := mat.NewDense(len(t), m.width(), nil)
	for i := range t {
		X.Set(i, 0, 1)
		X.Set(i, 1, t[i])
		col := 2
		for _, s := range m.changepoints {
			X.Set(i, col, ramp(t[i], s))
			col++
		}
		for _, s := range m.seasonalities {
			for _, f := range fourier(ds[i], s.period, s.order) {
				X.Set(i, col, f)
				col++
			}
		}
	}
	return X
}

type laplaceBlock struct {
	from, to int
	scale    float64
}

func (m *Model) priors() ([]float64, laplaceBlock) {
	precision := make([]float64, m.width())
	precision[0] = 1 / (trendPriorScale * trendPriorScale)
	precision[1] = 1 / (trendPriorScale * trendPriorScale)
	lap := laplaceBlock{from: 2, to: 2 + len(m.changepoints), scale: m.cfg.ChangepointPriorScale}

	col := lap.to
	for _, s := range m.seasonalities {
		for j := 0; j < 2*s.order; j++ {
			precision[col] = 1 / (s.priorScale * s.priorScale)
			col++
		}
	}
	return precision, lap
}

func (m *Model) unpack(beta []float64) {
	m.m = beta[0]
	m.k = beta[1]
	m.deltas = append([]float64(nil), beta[2:2+len(m.changepoints)]...)

	col := 2 + len(m.changepoints)
	m.betas = make([][]float64, len(m.seasonalities))
	for i, s := range m.seasonalities {
		m.betas[i] = append([]float64(nil), beta[col:col+2*s.order]...)
		col += 2 * s.order
	}
}

// fitMAP finds the posterior mode under Gaussian priors (given as precisions) and a Laplace
// prior on the changepoint block. The Laplace term is handled by iteratively reweighted
// ridge regression; the noise variance is re-estimated from residuals on every pass.
func fitMAP(X *mat.Dense, y *mat.VecDense, precision []float64, lap laplaceBlock) ([]float64, float64, error) {
	n, p := X.Dims()

	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())
	xty := mat.NewVecDense(p, nil)
	xty.MulVec(X.T(), y)

	beta := make([]float64, p)
	for i := lap.from; i < lap.to; i++ {
		beta[i] = lap.scale
	}
	sigma2 := math.Max(mat.Dot(y, y)/float64(n), minSigma2)

	A := mat.NewSymDense(p, nil)
	sol := mat.NewVecDense(p, nil)
	fitted := mat.NewVecDense(n, nil)
	var chol mat.Cholesky

	for iter := 0; iter < maxIterations; iter++ {
		A.CopySym(&xtx)
		for i := 0; i < p; i++ {
			w := precision[i]
			if i >= lap.from && i < lap.to {
				w = 1 / (lap.scale * math.Max(math.Abs(beta[i]), deltaFloor))
			}
			A.SetSym(i, i, A.At(i, i)+sigma2*w)
		}
		if ok := chol.Factorize(A); !ok {
			return nil, 0, newError("fit", "normal equations are not positive definite")
		}
		if err := chol.SolveVecTo(sol, xty); err != nil {
			return nil, 0, &ModelError{Op: "fit", Msg: "solve normal equations", Err: err}
		}

		change := 0.0
		for i := range beta {
			v := sol.AtVec(i)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, 0, newError("fit", "optimisation diverged")
			}
			change = math.Max(change, math.Abs(v-beta[i]))
			beta[i] = v
		}

		fitted.MulVec(X, sol)
		rss := 0.0
		for i := 0; i < n; i++ {
			r := y.AtVec(i) - fitted.AtVec(i)
			rss += r * r
		}
		sigma2 = math.Max(rss/float64(n), minSigma2)

		if iter > 0 && change < tolerance {
			break
		}
	}
	return beta, math.Sqrt(sigma2), nil
}
