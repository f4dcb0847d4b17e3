package loocv

import (
	"math"
	"math/rand"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/distance"
	"github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/series"
)

// BuildGrid expands a distance family name into its classic elastic-ensemble
// candidate grid over the training data. Grids are ordered cheap/strict
// first (ascending windows, ascending penalties) so earlier evaluations
// tighten the shared cutoffs for later ones. cfe is the cost function
// exponent of the exponent-parameterized families.
func BuildGrid(family string, cfe float64, train series.Dataset, rng *rand.Rand) (Grid, error) {
	if cfe < 1 {
		return nil, errors.NewValidationError("loocv.BuildGrid", "exponent must be >= 1").
			WithContext("distance", family)
	}
	lmax := train.Header().LengthMax
	switch family {
	case "dtw":
		// 100 windows from direct alignment to a quarter of the length.
		top := (lmax + 1) / 4
		grid := make(Grid, 0, 100)
		last := -1
		for k := 0; k < 100; k++ {
			w := top * k / 99
			if w == last {
				continue
			}
			last = w
			grid = append(grid, distance.DTWMetric{Exponent: cfe, Window: w})
		}
		return grid, nil
	case "adtw":
		// Penalties r^5-spaced up to the sampled mean direct alignment cost.
		maxOmega := sampleDirectMean(train, cfe, rng)
		grid := make(Grid, 0, 100)
		for k := 1; k <= 100; k++ {
			r := float64(k) / 100
			grid = append(grid, distance.ADTWMetric{Exponent: cfe, Omega: math.Pow(r, 5) * maxOmega})
		}
		return grid, nil
	case "wdtw":
		grid := make(Grid, 0, 100)
		for k := 0; k < 100; k++ {
			g := float64(k) / 100
			grid = append(grid, distance.WDTWMetric{
				Exponent: cfe,
				G:        g,
				Weights:  distance.GenerateWeights(g, lmax),
			})
		}
		return grid, nil
	case "msm":
		grid := make(Grid, 0, 100)
		for _, decade := range [][2]float64{{0.01, 0.1}, {0.1, 1}, {1, 10}, {10, 100}} {
			lo, hi := decade[0], decade[1]
			for k := 0; k < 25; k++ {
				grid = append(grid, distance.MSMMetric{Cost: lo + float64(k)*(hi-lo)/25})
			}
		}
		return grid, nil
	case "erp":
		s := series.StdDev(train, series.FullIndexSet(train.Size()))
		grid := make(Grid, 0, 100)
		for wk := 0; wk < 10; wk++ {
			w := (lmax + 1) / 4 * wk / 9
			for gk := 0; gk < 10; gk++ {
				gv := 0.2*s + float64(gk)*0.08*s
				grid = append(grid, distance.ERPMetric{Exponent: cfe, Gap: gv, Window: w})
			}
		}
		return grid, nil
	case "lcss":
		s := series.StdDev(train, series.FullIndexSet(train.Size()))
		grid := make(Grid, 0, 100)
		for wk := 0; wk < 10; wk++ {
			w := (lmax + 1) / 4 * wk / 9
			for ek := 0; ek < 10; ek++ {
				eps := 0.2*s + float64(ek)*0.08*s
				grid = append(grid, distance.LCSSMetric{Epsilon: eps, Window: w})
			}
		}
		return grid, nil
	case "twe":
		nus := []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
		lambdas := []float64{0, 0.011111, 0.022222, 0.033333, 0.044444, 0.055556, 0.066667, 0.077778, 0.088889, 0.1}
		grid := make(Grid, 0, 100)
		for _, nu := range nus {
			for _, lambda := range lambdas {
				grid = append(grid, distance.TWEMetric{Nu: nu, Lambda: lambda})
			}
		}
		return grid, nil
	}
	return nil, errors.NewConfigurationError("loocv.BuildGrid", "unknown distance family").
		WithContext("distance", family)
}

// sampleDirectMean estimates the scale of the direct alignment cost from a
// few random training pairs, following the ADTW penalty construction.
func sampleDirectMean(train series.Dataset, cfe float64, rng *rand.Rand) float64 {
	const nbSamples = 1000
	n := train.Size()
	if n < 2 {
		return 0
	}
	sum, nb := 0.0, 0
	for k := 0; k < nbSamples; k++ {
		i, j := rng.Intn(n), rng.Intn(n)
		if i == j {
			continue
		}
		if d := distance.DirectA(train.At(i), train.At(j), cfe, core.PInf); !math.IsInf(d, 1) {
			sum += d
			nb++
		}
	}
	if nb == 0 {
		return 0
	}
	return sum / float64(nb)
}
