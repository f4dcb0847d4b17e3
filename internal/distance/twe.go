package distance

import (
	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// TWE is the Time Warp Edit distance with stiffness nu and edit penalty
// lambda. The diagonal (match) move pays the squared distances of the two
// facing pairs plus 2*nu*|i-j|; the delete moves pay the squared step within
// one series plus nu+lambda.
//
// The 2*nu*|i-j| term is charged on every diagonal transition, including
// off-diagonal ones, matching the historical implementation this kernel is
// validated against; the textbook formulation differs.
func TWE(a, b series.Series, nu, lambda, cutoff float64, buf *Buffer) float64 {
	nbLines, nbCols := a.Length(), b.Length()
	if nbLines == 0 && nbCols == 0 {
		return 0
	}
	if nbLines == 0 || nbCols == 0 {
		return core.PInf
	}
	dab := sqe(a, b)
	daa := sqe(a, a)
	dbb := sqe(b, b)
	nuLambda := nu + lambda
	nu2 := 2 * nu
	diag := func(i, j int) float64 {
		if i == 0 && j == 0 {
			return dab(0, 0)
		}
		if i == 0 || j == 0 {
			// Matrix border: these cells are only reachable by a delete
			// move, never diagonally.
			return core.PInf
		}
		k := i - j
		if k < 0 {
			k = -k
		}
		return dab(i, j) + dab(i-1, j-1) + nu2*float64(k)
	}
	above := func(i, j int) float64 {
		if i == 0 {
			// First line: there is no line above to delete from.
			return core.PInf
		}
		return daa(i, i-1) + nuLambda
	}
	left := func(i, j int) float64 {
		if j == 0 {
			// First column: there is no column to the left to delete from.
			return core.PInf
		}
		return dbb(j, j-1) + nuLambda
	}
	co := resolveCutoff(cutoff, nbLines, nbCols, diag, above, left)
	if buf == nil {
		buf = getBuffer()
		defer putBuffer(buf)
	}
	return eapDist(nbLines, nbCols, core.NoWindow, diag, above, left, co, buf)
}
