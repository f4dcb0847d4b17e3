package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// WDTWMaxWeight caps the logistic weight curve.
const WDTWMaxWeight = 1.0

// GenerateWeights precomputes the WDTW weight vector for series of length up
// to length: weight[k] = Wmax / (1 + exp(-g*(k - length/2))). The vector is
// immutable after construction and shared read-only by every kernel call of a
// node.
func GenerateWeights(g float64, length int) []float64 {
	weights := make([]float64, length)
	half := float64(length) / 2
	for i := range weights {
		weights[i] = WDTWMaxWeight / (1 + math.Exp(-g*(float64(i)-half)))
	}
	return weights
}

// WDTW is DTW with every transition cost scaled by a weight indexed on the
// warping amount |i-j|. weights must cover max(len(a), len(b)) entries; use
// GenerateWeights once per (g, length) pair.
func WDTW(a, b series.Series, e float64, weights []float64, cutoff float64, buf *Buffer) float64 {
	nbLines, nbCols := a.Length(), b.Length()
	if nbLines == 0 && nbCols == 0 {
		return 0
	}
	if nbLines == 0 || nbCols == 0 {
		return core.PInf
	}
	if nbCols > nbLines {
		a, b = b, a
		nbLines, nbCols = nbCols, nbLines
	}
	d := ade(a, b, e)
	wd := func(i, j int) float64 {
		k := i - j
		if k < 0 {
			k = -k
		}
		return d(i, j) * weights[k]
	}
	co := resolveCutoff(cutoff, nbLines, nbCols, wd, wd, wd)
	if buf == nil {
		buf = getBuffer()
		defer putBuffer(buf)
	}
	return eapDist(nbLines, nbCols, core.NoWindow, wd, wd, wd, co, buf)
}
