package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/series"
)

// CostFn is the cost of one DP transition into cell (i, j). The three
// transition kinds (diag, above, left) of a kernel are each expressed as one
// CostFn over the pair of series captured by the closure.
type CostFn func(i, j int) float64

// costAt raises the absolute difference to the exponent. Exponents 1 and 2
// dominate in practice and skip math.Pow.
func costAt(d, e float64) float64 {
	d = math.Abs(d)
	switch e {
	case 1:
		return d
	case 2:
		return d * d
	default:
		return math.Pow(d, e)
	}
}

// ade builds the pointwise cost |A[i]-B[j]|^e, summed over dimensions for
// multivariate series (dependent strategy: one warping path for all dims).
func ade(a, b series.Series, e float64) CostFn {
	if a.Dims() == 1 {
		av, bv := a.Values(), b.Values()
		switch e {
		case 2:
			return func(i, j int) float64 {
				d := av[i] - bv[j]
				return d * d
			}
		case 1:
			return func(i, j int) float64 {
				return math.Abs(av[i] - bv[j])
			}
		default:
			return func(i, j int) float64 {
				return math.Pow(math.Abs(av[i]-bv[j]), e)
			}
		}
	}
	dims := a.Dims()
	av, bv := a.Values(), b.Values()
	return func(i, j int) float64 {
		sum := 0.0
		for k := 0; k < dims; k++ {
			sum += costAt(av[i*dims+k]-bv[j*dims+k], e)
		}
		return sum
	}
}

// adeGap builds the gap cost |X[i]-gv|^e against a constant gap value (ERP
// top/left transitions).
func adeGap(x series.Series, gv, e float64) func(i int) float64 {
	if x.Dims() == 1 {
		xv := x.Values()
		return func(i int) float64 { return costAt(xv[i]-gv, e) }
	}
	dims := x.Dims()
	xv := x.Values()
	return func(i int) float64 {
		sum := 0.0
		for k := 0; k < dims; k++ {
			sum += costAt(xv[i*dims+k]-gv, e)
		}
		return sum
	}
}

// sqe is the squared Euclidean distance between point i of a and point j of b.
func sqe(a, b series.Series) func(i, j int) float64 {
	if a.Dims() == 1 {
		av, bv := a.Values(), b.Values()
		return func(i, j int) float64 {
			d := av[i] - bv[j]
			return d * d
		}
	}
	dims := a.Dims()
	av, bv := a.Values(), b.Values()
	return func(i, j int) float64 {
		sum := 0.0
		for k := 0; k < dims; k++ {
			d := av[i*dims+k] - bv[j*dims+k]
			sum += d * d
		}
		return sum
	}
}

// ed is the (non squared) Euclidean distance between point i of a and point
// j of b, used by the multivariate MSM hypersphere cost and LCSS matching.
func ed(a, b series.Series, i, j int) float64 {
	if a.Dims() == 1 {
		return math.Abs(a.V1(i) - b.V1(j))
	}
	dims := a.Dims()
	av, bv := a.Values(), b.Values()
	sum := 0.0
	for k := 0; k < dims; k++ {
		d := av[i*dims+k] - bv[j*dims+k]
		sum += d * d
	}
	return math.Sqrt(sum)
}
