package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// msmCost1 is the univariate split/merge cost of inserting xnew relative to
// its predecessor xi in the same series and the facing point yj of the other
// series: c alone when xnew lies between them, c plus the distance to the
// closer of the two otherwise.
func msmCost1(xnew, xi, yj, c float64) float64 {
	if (xi <= xnew && xnew <= yj) || (yj <= xnew && xnew <= xi) {
		return c
	}
	return c + math.Min(math.Abs(xnew-xi), math.Abs(xnew-yj))
}

// msmCostN is the multivariate split/merge cost: xi and yj are the poles of a
// hypersphere; xnew inside it costs c, outside it costs c plus the distance
// to the nearer pole.
func msmCostN(x series.Series, xnew, xi int, y series.Series, yj int, c float64) float64 {
	dims := x.Dims()
	xv, yv := x.Values(), y.Values()
	radius := ed(x, y, xi, yj) / 2
	dMid := 0.0
	for k := 0; k < dims; k++ {
		mid := (xv[xi*dims+k] + yv[yj*dims+k]) / 2
		d := xv[xnew*dims+k] - mid
		dMid += d * d
	}
	if math.Sqrt(dMid) <= radius {
		return c
	}
	dPrev := ed(x, x, xnew, xi)
	dOther := ed(x, y, xnew, yj)
	return c + math.Min(dPrev, dOther)
}

// MSM is the Move-Split-Merge distance with split/merge cost c. The diagonal
// move pays the pointwise distance; the two warping moves pay the split/merge
// cost of the inserted point.
func MSM(a, b series.Series, c, cutoff float64, buf *Buffer) float64 {
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
	var diag, above, left CostFn
	if a.Dims() == 1 {
		av, bv := a.Values(), b.Values()
		diag = func(i, j int) float64 { return math.Abs(av[i] - bv[j]) }
		above = func(i, j int) float64 { return msmCost1(av[i], av[i-1], bv[j], c) }
		left = func(i, j int) float64 { return msmCost1(bv[j], bv[j-1], av[i], c) }
	} else {
		diag = func(i, j int) float64 { return ed(a, b, i, j) }
		above = func(i, j int) float64 { return msmCostN(a, i, i-1, b, j, c) }
		left = func(i, j int) float64 { return msmCostN(b, j, j-1, a, i, c) }
	}
	co := resolveCutoff(cutoff, nbLines, nbCols, diag, above, left)
	if buf == nil {
		buf = getBuffer()
		defer putBuffer(buf)
	}
	return eapDist(nbLines, nbCols, core.NoWindow, diag, above, left, co, buf)
}
