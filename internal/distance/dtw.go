package distance

import (
	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// DTW computes the Dynamic Time Warping distance between a and b with cost
// exponent e, pruning and early abandoning against cutoff. cutoff follows the
// shared sentinel contract: NaN disables pruning, +Inf prunes under the
// diagonal upper bound, any other value doubles as an early-abandon bound.
func DTW(a, b series.Series, e, cutoff float64, buf *Buffer) float64 {
	return CDTW(a, b, e, core.NoWindow, cutoff, buf)
}

// CDTW is DTW under a Sakoe-Chiba band: column j is reachable from line i
// only when |i-j| <= window. Returns +Inf when the window makes any alignment
// impossible.
func CDTW(a, b series.Series, e float64, window int, cutoff float64, buf *Buffer) float64 {
	nbLines, nbCols := a.Length(), b.Length()
	if nbLines == 0 && nbCols == 0 {
		return 0
	}
	if nbLines == 0 || nbCols == 0 {
		return core.PInf
	}
	// Symmetric: keep the shorter series on the columns.
	if nbCols > nbLines {
		a, b = b, a
		nbLines, nbCols = nbCols, nbLines
	}
	if window > nbLines {
		window = nbLines
	}
	if nbLines-nbCols > window {
		return core.PInf
	}
	d := ade(a, b, e)
	co := resolveCutoff(cutoff, nbLines, nbCols, d, d, d)
	if buf == nil {
		buf = getBuffer()
		defer putBuffer(buf)
	}
	return eapDist(nbLines, nbCols, window, d, d, d, co, buf)
}
