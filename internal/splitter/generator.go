package splitter

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/distance"
	"github.com/strider-ts/strider/internal/series"
)

// Candidate couples a drawn metric with the transform it runs on.
type Candidate struct {
	Metric    distance.Metric
	Transform string
}

// Generator draws one parameterized candidate for a node. Implementations
// sample their kernel-specific hyperparameters from the node's PRNG and, when
// the distribution is data-dependent (ERP gap value, LCSS tolerance), from
// the statistics of the series reaching the node.
type Generator interface {
	Generate(st *TreeState, bcm series.ByClassMap) (Candidate, error)
}

// DefaultExponents is the cost function exponent pool shared by the
// exponent-parameterized generators.
var DefaultExponents = []float64{1, 2}

// DefaultTransforms is the transform pool sampled at each node.
var DefaultTransforms = []string{"raw", "derivative:1"}

// windowTop caps the sampled warping window to a quarter of the longest
// series.
func windowTop(st *TreeState) int { return (st.MaxLength() + 1) / 4 }

func pickTransform(st *TreeState, transforms []string) string {
	return core.PickOne(transforms, st.Rng)
}

// nodeStdDev is the standard deviation of the node's series under the chosen
// transform.
func nodeStdDev(st *TreeState, bcm series.ByClassMap, transform string) (float64, error) {
	ds, err := st.Transform(transform)
	if err != nil {
		return 0, err
	}
	return series.StdDev(ds, bcm.IndexSet()), nil
}

// DAGen draws direct alignment splitters.
type DAGen struct {
	Transforms []string
	Exponents  []float64
}

func (g DAGen) Generate(st *TreeState, _ series.ByClassMap) (Candidate, error) {
	return Candidate{
		Metric:    distance.DirectMetric{Exponent: core.PickOne(g.Exponents, st.Rng)},
		Transform: pickTransform(st, g.Transforms),
	}, nil
}

// DTWFullGen draws DTW splitters without a window.
type DTWFullGen struct {
	Transforms []string
	Exponents  []float64
}

func (g DTWFullGen) Generate(st *TreeState, _ series.ByClassMap) (Candidate, error) {
	return Candidate{
		Metric:    distance.DTWMetric{Exponent: core.PickOne(g.Exponents, st.Rng), Window: core.NoWindow},
		Transform: pickTransform(st, g.Transforms),
	}, nil
}

// CDTWGen draws windowed DTW splitters, w ~ U{0..(Lmax+1)/4}.
type CDTWGen struct {
	Transforms []string
	Exponents  []float64
}

func (g CDTWGen) Generate(st *TreeState, _ series.ByClassMap) (Candidate, error) {
	w := st.Rng.Intn(windowTop(st) + 1)
	return Candidate{
		Metric:    distance.DTWMetric{Exponent: core.PickOne(g.Exponents, st.Rng), Window: w},
		Transform: pickTransform(st, g.Transforms),
	}, nil
}

// WDTWGen draws weighted DTW splitters, g ~ U[0,1), weights derived from g
// and the longest series length and shared through the tree state.
type WDTWGen struct {
	Transforms []string
	Exponents  []float64
}

func (g WDTWGen) Generate(st *TreeState, _ series.ByClassMap) (Candidate, error) {
	decay := st.Rng.Float64()
	return Candidate{
		Metric: distance.WDTWMetric{
			Exponent: core.PickOne(g.Exponents, st.Rng),
			G:        decay,
			Weights:  st.WDTWWeights(decay, st.MaxLength()),
		},
		Transform: pickTransform(st, g.Transforms),
	}, nil
}

// ERPGen draws ERP splitters: w ~ U{0..(Lmax+1)/4} and gap value
// gv ~ U[0.2s, s) where s is the standard deviation of the series reaching
// the node under the chosen transform.
type ERPGen struct {
	Transforms []string
	Exponents  []float64
}

func (g ERPGen) Generate(st *TreeState, bcm series.ByClassMap) (Candidate, error) {
	tname := pickTransform(st, g.Transforms)
	e := core.PickOne(g.Exponents, st.Rng)
	w := st.Rng.Intn(windowTop(st) + 1)
	s, err := nodeStdDev(st, bcm, tname)
	if err != nil {
		return Candidate{}, err
	}
	gv := 0.2*s + st.Rng.Float64()*0.8*s
	return Candidate{
		Metric:    distance.ERPMetric{Exponent: e, Gap: gv, Window: w},
		Transform: tname,
	}, nil
}

// LCSSGen draws LCSS splitters: w ~ U{0..(Lmax+1)/4} and tolerance
// epsilon ~ U[0.2s, s) from the node's standard deviation.
type LCSSGen struct {
	Transforms []string
}

func (g LCSSGen) Generate(st *TreeState, bcm series.ByClassMap) (Candidate, error) {
	tname := pickTransform(st, g.Transforms)
	w := st.Rng.Intn(windowTop(st) + 1)
	s, err := nodeStdDev(st, bcm, tname)
	if err != nil {
		return Candidate{}, err
	}
	eps := 0.2*s + st.Rng.Float64()*0.8*s
	return Candidate{
		Metric:    distance.LCSSMetric{Epsilon: eps, Window: w},
		Transform: tname,
	}, nil
}

// MSMGen draws MSM splitters with the split/merge cost sampled log-uniformly
// over [0.01, 100).
type MSMGen struct {
	Transforms []string
}

func (g MSMGen) Generate(st *TreeState, _ series.ByClassMap) (Candidate, error) {
	c := math.Pow(10, st.Rng.Float64()*4-2)
	return Candidate{
		Metric:    distance.MSMMetric{Cost: c},
		Transform: pickTransform(st, g.Transforms),
	}, nil
}

// tweNus and tweLambdas are the classic elastic-ensemble parameter pools.
var (
	tweNus     = []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
	tweLambdas = []float64{0, 0.011111, 0.022222, 0.033333, 0.044444, 0.055556, 0.066667, 0.077778, 0.088889, 0.1}
)

// TWEGen draws TWE splitters from the classic stiffness/penalty pools.
type TWEGen struct {
	Transforms []string
}

func (g TWEGen) Generate(st *TreeState, _ series.ByClassMap) (Candidate, error) {
	return Candidate{
		Metric: distance.TWEMetric{
			Nu:     core.PickOne(tweNus, st.Rng),
			Lambda: core.PickOne(tweLambdas, st.Rng),
		},
		Transform: pickTransform(st, g.Transforms),
	}, nil
}

// ADTWGen draws ADTW splitters. The penalty scales a sampled ratio^5 by the
// average direct alignment cost of a few random pairs reaching the node, so
// omega spans "plain DTW" to "no warping at all" on the node's own scale.
type ADTWGen struct {
	Transforms []string
	Exponents  []float64
}

func (g ADTWGen) Generate(st *TreeState, bcm series.ByClassMap) (Candidate, error) {
	tname := pickTransform(st, g.Transforms)
	e := core.PickOne(g.Exponents, st.Rng)
	ds, err := st.Transform(tname)
	if err != nil {
		return Candidate{}, err
	}
	is := bcm.IndexSet()
	const nbSamples = 10
	sum, nb := 0.0, 0
	for k := 0; k < nbSamples && len(is) >= 2; k++ {
		i := is[st.Rng.Intn(len(is))]
		j := is[st.Rng.Intn(len(is))]
		if i == j {
			continue
		}
		if d := distance.DirectA(ds.At(i), ds.At(j), e, core.PInf); !math.IsInf(d, 1) {
			sum += d
			nb++
		}
	}
	maxOmega := 0.0
	if nb > 0 {
		maxOmega = sum / float64(nb)
	}
	r := st.Rng.Float64()
	omega := math.Pow(r, 5) * maxOmega
	return Candidate{
		Metric:    distance.ADTWMetric{Exponent: e, Omega: omega},
		Transform: tname,
	}, nil
}

// DefaultGenerators is the standard proximity-forest pool: one generator per
// distance family, picked uniformly at each node.
func DefaultGenerators() []Generator {
	t := DefaultTransforms
	e := DefaultExponents
	return []Generator{
		DAGen{Transforms: t, Exponents: e},
		DTWFullGen{Transforms: t, Exponents: e},
		CDTWGen{Transforms: t, Exponents: e},
		WDTWGen{Transforms: t, Exponents: e},
		ERPGen{Transforms: t, Exponents: e},
		LCSSGen{Transforms: t},
		MSMGen{Transforms: t},
		TWEGen{Transforms: t},
		ADTWGen{Transforms: t, Exponents: e},
	}
}

// PickGen selects one generator uniformly at each node.
type PickGen struct {
	Pool []Generator
}

func (g PickGen) Generate(st *TreeState, bcm series.ByClassMap) (Candidate, error) {
	return core.PickOne(g.Pool, st.Rng).Generate(st, bcm)
}
