package prophet

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// poisson draws from Poisson(lambda) on src.
func poisson(src rand.Source, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: src}.Rand())
}

// laplaceSamples draws k values from Laplace(0, scale) on src.
func laplaceSamples(src rand.Source, k int, scale float64) []float64 {
	d := distuv.Laplace{Mu: 0, Scale: scale, Src: src}
	out := make([]float64, k)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}
