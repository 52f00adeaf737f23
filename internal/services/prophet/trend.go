package prophet

import "math"

// placeChangepoints spreads up to n changepoints over the first historyRange share of the
// sorted scaled times t. The first observation is never a changepoint.
func placeChangepoints(t []float64, n int, historyRange float64) []float64 {
	histSize := int(math.Floor(float64(len(t)) * historyRange))
	if n+1 > histSize {
		n = histSize - 1
	}
	if n <= 0 {
		return nil
	}

	out := make([]float64, 0, n)
	step := float64(histSize-1) / float64(n)
	for i := 1; i <= n; i++ {
		idx := int(math.RoundToEven(float64(i) * step))
		out = append(out, t[idx])
	}
	return out
}

// piecewiseLinear evaluates k*t + m + sum(delta_j * (t - s_j)) over changepoints s_j <= t.
func piecewiseLinear(t, k, m float64, changepoints, deltas []float64) float64 {
	v := k*t + m
	for j, s := range changepoints {
		if t >= s {
			v += deltas[j] * (t - s)
		}
	}
	return v
}

// ramp is the design column of a changepoint.
func ramp(t, s float64) float64 {
	if t >= s {
		return t - s
	}
	return 0
}
