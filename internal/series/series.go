package series

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/errors"
)

// Series is one immutable time series: length*dims float64 values stored
// row-major (one row per time point), plus an optional class label.
type Series struct {
	values []float64
	length int
	dims   int
	label  *core.Label
}

// New builds a Series over values. values is not copied; the caller must not
// mutate it afterwards. dims must be >= 1 and divide len(values) exactly.
// NaN values are rejected.
func New(values []float64, dims int, label *core.Label) (Series, error) {
	if dims < 1 {
		return Series{}, errors.NewValidationError("series.New", "dims must be >= 1")
	}
	if len(values)%dims != 0 {
		return Series{}, errors.NewValidationError("series.New", "len(values) must be a multiple of dims")
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return Series{}, errors.NewValidationError("series.New", "NaN value in series")
		}
	}
	return Series{values: values, length: len(values) / dims, dims: dims, label: label}, nil
}

// MustNew is New for literal inputs in tests and generators.
func MustNew(values []float64, dims int, label *core.Label) Series {
	s, err := New(values, dims, label)
	if err != nil {
		panic(err)
	}
	return s
}

// Univariate wraps a one-dimensional value slice.
func Univariate(values []float64, label *core.Label) (Series, error) {
	return New(values, 1, label)
}

// Length is the number of time points.
func (s Series) Length() int { return s.length }

// Dims is the number of dimensions per time point.
func (s Series) Dims() int { return s.dims }

// Values exposes the backing row-major buffer. Read-only by contract.
func (s Series) Values() []float64 { return s.values }

// At returns the value of dimension k at time point i.
func (s Series) At(i, k int) float64 { return s.values[i*s.dims+k] }

// V1 returns the value at time point i of a univariate series.
func (s Series) V1(i int) float64 { return s.values[i] }

// Label returns the class label, if any.
func (s Series) Label() (core.Label, bool) {
	if s.label == nil {
		return "", false
	}
	return *s.label, true
}

// Relabel returns a copy of the series sharing values with a new label.
func (s Series) Relabel(label core.Label) Series {
	return Series{values: s.values, length: s.length, dims: s.dims, label: &label}
}
