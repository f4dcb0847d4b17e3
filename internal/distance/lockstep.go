package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// DirectA is the direct alignment: pointwise costs |A[i]-B[i]|^e summed over
// aligned positions, abandoning as soon as the running sum exceeds the
// cutoff. Series of different lengths have no direct alignment.
func DirectA(a, b series.Series, e, cutoff float64) float64 {
	if a.Length() == 0 && b.Length() == 0 {
		return 0
	}
	if a.Length() != b.Length() {
		return core.PInf
	}
	co := cutoff
	if math.IsNaN(co) {
		co = core.PInf
	}
	d := ade(a, b, e)
	sum := 0.0
	for i := 0; i < a.Length(); i++ {
		sum += d(i, i)
		if sum > co {
			return core.PInf
		}
	}
	return sum
}

// Lorentzian is the lockstep distance sum(ln(1+|a-b|)) over all values.
func Lorentzian(a, b series.Series) float64 {
	if a.Length() == 0 && b.Length() == 0 {
		return 0
	}
	if a.Length() != b.Length() || a.Dims() != b.Dims() {
		return core.PInf
	}
	av, bv := a.Values(), b.Values()
	sum := 0.0
	for i := range av {
		sum += math.Log1p(math.Abs(av[i] - bv[i]))
	}
	return sum
}

// ModMinkowski is the Minkowski distance without the e-th root:
// sum(|a-b|^e) over all values.
func ModMinkowski(a, b series.Series, e float64) float64 {
	if a.Length() == 0 && b.Length() == 0 {
		return 0
	}
	if a.Length() != b.Length() || a.Dims() != b.Dims() {
		return core.PInf
	}
	av, bv := a.Values(), b.Values()
	sum := 0.0
	for i := range av {
		sum += costAt(av[i]-bv[i], e)
	}
	return sum
}
