package series

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/strider-ts/strider/internal/errors"
)

// Derivative returns the discrete derivative of s, one point shorter.
// Multivariate series are derived per dimension.
func Derivative(s Series) Series {
	n, d := s.Length(), s.Dims()
	if n <= 1 {
		return s
	}
	out := make([]float64, (n-1)*d)
	v := s.Values()
	for i := 0; i < n-1; i++ {
		for k := 0; k < d; k++ {
			out[i*d+k] = v[(i+1)*d+k] - v[i*d+k]
		}
	}
	res := Series{values: out, length: n - 1, dims: d, label: s.label}
	return res
}

// ZScore normalizes s to zero mean and unit standard deviation.
// A constant series maps to all zeros.
func ZScore(s Series) Series {
	v := s.Values()
	mean, std := stat.MeanStdDev(v, nil)
	out := make([]float64, len(v))
	if std == 0 || math.IsNaN(std) {
		return Series{values: out, length: s.length, dims: s.dims, label: s.label}
	}
	for i, x := range v {
		out[i] = (x - mean) / std
	}
	return Series{values: out, length: s.length, dims: s.dims, label: s.label}
}

// MinMax rescales s linearly into [lo, hi]. A constant series maps to lo.
func MinMax(s Series, lo, hi float64) Series {
	v := s.Values()
	mn, mx := v[0], v[0]
	for _, x := range v {
		if x < mn {
			mn = x
		}
		if x > mx {
			mx = x
		}
	}
	out := make([]float64, len(v))
	if mx == mn {
		for i := range out {
			out[i] = lo
		}
	} else {
		scale := (hi - lo) / (mx - mn)
		for i, x := range v {
			out[i] = lo + (x-mn)*scale
		}
	}
	return Series{values: out, length: s.length, dims: s.dims, label: s.label}
}

// UnitLength rescales s to a Euclidean norm of 1.
func UnitLength(s Series) Series {
	v := s.Values()
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	out := make([]float64, len(v))
	if norm != 0 {
		for i, x := range v {
			out[i] = x / norm
		}
	}
	return Series{values: out, length: s.length, dims: s.dims, label: s.label}
}

// MeanNorm subtracts the series mean.
func MeanNorm(s Series) Series {
	v := s.Values()
	mean := stat.Mean(v, nil)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x - mean
	}
	return Series{values: out, length: s.length, dims: s.dims, label: s.label}
}

// ApplyTransform resolves a transform spec ("raw", "derivative:<k>",
// "zscore", "minmax[:<lo>:<hi>]", "unitlength", "meannorm") against d.
func ApplyTransform(d Dataset, spec string) (Dataset, error) {
	parts := strings.Split(spec, ":")
	switch parts[0] {
	case "", "raw", "default":
		return d, nil
	case "derivative":
		degree := 1
		if len(parts) == 2 {
			k, err := strconv.Atoi(parts[1])
			if err != nil || k < 1 {
				return Dataset{}, errors.NewValidationError("series.ApplyTransform", "derivative degree must be an integer >= 1")
			}
			degree = k
		}
		out := d
		for i := 0; i < degree; i++ {
			out = out.Map(fmt.Sprintf("derivative%d", i+1), Derivative)
		}
		return out, nil
	case "zscore":
		return d.Map("zscore", ZScore), nil
	case "minmax":
		lo, hi := 0.0, 1.0
		if len(parts) == 3 {
			var err1, err2 error
			lo, err1 = strconv.ParseFloat(parts[1], 64)
			hi, err2 = strconv.ParseFloat(parts[2], 64)
			if err1 != nil || err2 != nil || hi <= lo {
				return Dataset{}, errors.NewValidationError("series.ApplyTransform", "minmax range must be two floats with max > min")
			}
		}
		return d.Map("minmax", func(s Series) Series { return MinMax(s, lo, hi) }), nil
	case "unitlength":
		return d.Map("unitlength", UnitLength), nil
	case "meannorm":
		return d.Map("meannorm", MeanNorm), nil
	}
	return Dataset{}, errors.NewConfigurationError("series.ApplyTransform", "unknown transform").
		WithContext("transform", parts[0])
}
