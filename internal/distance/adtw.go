package distance

import (
	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// ADTW is the Amerced DTW: the diagonal move costs the pointwise distance,
// the two warping moves pay an additive penalty omega on top of it. omega=0
// degenerates to DTW, a huge omega degenerates to the direct alignment.
func ADTW(a, b series.Series, e, omega, cutoff float64, buf *Buffer) float64 {
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
	warp := func(i, j int) float64 { return d(i, j) + omega }
	co := resolveCutoff(cutoff, nbLines, nbCols, d, warp, warp)
	if buf == nil {
		buf = getBuffer()
		defer putBuffer(buf)
	}
	return eapDist(nbLines, nbCols, core.NoWindow, d, warp, warp, co, buf)
}
