package splitter

import (
	"math/rand"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/strider-ts/strider/internal/distance"
	"github.com/strider-ts/strider/internal/series"
)

// weightKey identifies one WDTW weight vector.
type weightKey struct {
	g      float64
	length int
}

// TreeState is the mutable context threaded through the growth of one tree:
// the tree's PRNG, the per-transform dataset cache and the scratch buffer.
// A TreeState is confined to one goroutine.
type TreeState struct {
	Rng *rand.Rand

	base       series.Dataset
	transforms map[string]series.Dataset
	weights    *lru.Cache[weightKey, []float64]
	buf        *distance.Buffer
}

// NewTreeState builds a state over the base (raw) training dataset.
func NewTreeState(base series.Dataset, seed int64) *TreeState {
	weights, _ := lru.New[weightKey, []float64](32)
	return &TreeState{
		Rng:        rand.New(rand.NewSource(seed)),
		base:       base,
		transforms: map[string]series.Dataset{"raw": base},
		weights:    weights,
		buf:        distance.NewBuffer(base.Header().LengthMax),
	}
}

// Transform resolves a transform name against the cached derived datasets,
// deriving and caching on first use. Transforms preserve dataset size, so
// indices remain valid across them.
func (st *TreeState) Transform(name string) (series.Dataset, error) {
	if ds, ok := st.transforms[name]; ok {
		return ds, nil
	}
	ds, err := series.ApplyTransform(st.base, name)
	if err != nil {
		return series.Dataset{}, err
	}
	st.transforms[name] = ds
	return ds, nil
}

// WDTWWeights returns the shared weight vector for (g, length), computing it
// once per distinct pair.
func (st *TreeState) WDTWWeights(g float64, length int) []float64 {
	key := weightKey{g: g, length: length}
	if w, ok := st.weights.Get(key); ok {
		return w
	}
	w := distance.GenerateWeights(g, length)
	st.weights.Add(key, w)
	return w
}

// Buffer is the state's scratch buffer for kernel calls.
func (st *TreeState) Buffer() *distance.Buffer { return st.buf }

// MaxLength is the longest series length of the base dataset.
func (st *TreeState) MaxLength() int { return st.base.Header().LengthMax }
