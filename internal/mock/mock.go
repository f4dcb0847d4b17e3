// Package mock generates seeded random series and datasets for tests.
package mock

import (
	"fmt"
	"math/rand"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// Mocker produces random series with reproducible content.
type Mocker struct {
	Rng  *rand.Rand
	Dim  int
	MinL int
	MaxL int
	FixL int
	MinV float64
	MaxV float64
}

// NewMocker seeds a mocker with the default shape: univariate series of 25
// points (20 to 30 when variable), values in [0, 1).
func NewMocker(seed int64) *Mocker {
	return &Mocker{
		Rng:  rand.New(rand.NewSource(seed)),
		Dim:  1,
		MinL: 20,
		MaxL: 30,
		FixL: 25,
		MinV: 0,
		MaxV: 1,
	}
}

// RandVec generates one series of the given length.
func (m *Mocker) RandVec(length int) series.Series {
	vals := make([]float64, length*m.Dim)
	for i := range vals {
		vals[i] = m.MinV + m.Rng.Float64()*(m.MaxV-m.MinV)
	}
	return series.MustNew(vals, m.Dim, nil)
}

// VecRandVec generates nbItems fixed-length series.
func (m *Mocker) VecRandVec(nbItems int) []series.Series {
	out := make([]series.Series, nbItems)
	for i := range out {
		out[i] = m.RandVec(m.FixL)
	}
	return out
}

// VecRSRandVec generates nbItems variable-length series.
func (m *Mocker) VecRSRandVec(nbItems int) []series.Series {
	out := make([]series.Series, nbItems)
	for i := range out {
		out[i] = m.RandVec(m.MinL + m.Rng.Intn(m.MaxL-m.MinL+1))
	}
	return out
}

// TwoClassDataset builds a labeled two-class dataset: class "a" values are
// drawn from [0, 0.5), class "b" values from [offset, offset+0.5). The
// classes are linearly separable when offset >= 0.5 and overlap below that.
func (m *Mocker) TwoClassDataset(name string, perClass int, offset float64) series.Dataset {
	ss := make([]series.Series, 0, 2*perClass)
	for c, label := range []core.Label{"a", "b"} {
		base := float64(c) * offset
		for i := 0; i < perClass; i++ {
			vals := make([]float64, m.FixL*m.Dim)
			for k := range vals {
				vals[k] = base + m.Rng.Float64()*0.5
			}
			l := label
			ss = append(ss, series.MustNew(vals, m.Dim, &l))
		}
	}
	ds, err := series.NewDataset(name, ss)
	if err != nil {
		panic(fmt.Sprintf("mock dataset: %v", err))
	}
	return ds
}
