package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/distance"
	"github.com/strider-ts/strider/internal/mock"
	"github.com/strider-ts/strider/internal/series"
)

func nodeBCM(t *testing.T, ds series.Dataset) series.ByClassMap {
	t.Helper()
	bcm, err := series.NewByClassMap(ds, series.FullIndexSet(ds.Size()))
	require.NoError(t, err)
	return bcm
}

// fixedGen always returns the same metric, for deterministic structure tests.
type fixedGen struct {
	metric distance.Metric
}

func (g fixedGen) Generate(*TreeState, series.ByClassMap) (Candidate, error) {
	return Candidate{Metric: g.metric, Transform: "raw"}, nil
}

func TestBuildBranchCount(t *testing.T) {
	m := mock.NewMocker(251)
	ds := m.TwoClassDataset("train", 6, 10)
	st := NewTreeState(ds, 1)
	bcm := nodeBCM(t, ds)

	res, err := Build(st, bcm, fixedGen{metric: distance.DTWMetric{Exponent: 2, Window: core.NoWindow}})
	require.NoError(t, err)

	// Exactly one branch per class of the parent.
	require.Len(t, res.Branches, bcm.NbClasses())
	require.NotNil(t, res.Splitter)
	assert.Len(t, res.Splitter.Exemplars, bcm.NbClasses())

	// Every index of the node lands in exactly one branch.
	total := 0
	for _, b := range res.Branches {
		total += b.Size()
	}
	assert.Equal(t, bcm.Size(), total)
}

func TestBuildNoEmptyClassEntries(t *testing.T) {
	m := mock.NewMocker(257)
	ds := m.TwoClassDataset("train", 6, 10)
	st := NewTreeState(ds, 2)
	bcm := nodeBCM(t, ds)

	for trial := 0; trial < 20; trial++ {
		res, err := Build(st, bcm, PickGen{Pool: DefaultGenerators()})
		require.NoError(t, err)
		for _, branch := range res.Branches {
			// A branch map always carries at least one class entry, and no
			// class list inside a non-empty branch is empty unless it is the
			// placeholder of an entirely empty branch.
			require.NotZero(t, branch.NbClasses())
			if branch.Size() == 0 {
				assert.Equal(t, 1, branch.NbClasses())
				continue
			}
			for _, l := range branch.Classes() {
				assert.NotEmpty(t, branch.Members(l), "class %s", l)
			}
		}
	}
}

// With well-separated classes the 1-NN partition is clean: every series
// joins the branch of its own class.
func TestBuildSeparatesClasses(t *testing.T) {
	m := mock.NewMocker(263)
	ds := m.TwoClassDataset("train", 8, 100)
	st := NewTreeState(ds, 3)
	bcm := nodeBCM(t, ds)

	res, err := Build(st, bcm, fixedGen{metric: distance.DTWMetric{Exponent: 2, Window: core.NoWindow}})
	require.NoError(t, err)
	l2i := bcm.LabelsToIndex()
	for _, label := range bcm.Classes() {
		branch := res.Branches[l2i[label]]
		assert.Equal(t, len(bcm.Members(label)), len(branch.Members(label)))
	}
}

func TestBuildDeterministicWithSeed(t *testing.T) {
	m := mock.NewMocker(269)
	ds := m.TwoClassDataset("train", 6, 0.3)
	bcm := nodeBCM(t, ds)

	run := func() ([]int, [][]int) {
		st := NewTreeState(ds, 77)
		res, err := Build(st, bcm, PickGen{Pool: DefaultGenerators()})
		require.NoError(t, err)
		var sizes [][]int
		for _, b := range res.Branches {
			var rows []int
			for _, l := range b.Classes() {
				rows = append(rows, len(b.Members(l)))
			}
			sizes = append(sizes, rows)
		}
		return res.Splitter.Exemplars, sizes
	}
	ex1, sz1 := run()
	ex2, sz2 := run()
	assert.Equal(t, ex1, ex2)
	assert.Equal(t, sz1, sz2)
}

func TestSplitterRoutesTestQueries(t *testing.T) {
	m := mock.NewMocker(271)
	ds := m.TwoClassDataset("train", 8, 100)
	st := NewTreeState(ds, 5)
	bcm := nodeBCM(t, ds)

	res, err := Build(st, bcm, fixedGen{metric: distance.DTWMetric{Exponent: 2, Window: core.NoWindow}})
	require.NoError(t, err)

	test := m.TwoClassDataset("test", 4, 100)
	for i := 0; i < test.Size(); i++ {
		q := test.At(i)
		label, _ := q.Label()
		branch := res.Splitter.BranchIndex(q, st.Rng, st.Buffer())
		assert.Equal(t, res.Splitter.LabelsToIndex[label], branch)
	}
}

func TestTreeStateTransformCache(t *testing.T) {
	m := mock.NewMocker(277)
	ds := m.TwoClassDataset("train", 4, 1)
	st := NewTreeState(ds, 9)

	d1, err := st.Transform("derivative:1")
	require.NoError(t, err)
	d2, err := st.Transform("derivative:1")
	require.NoError(t, err)
	assert.Equal(t, d1.Header(), d2.Header())
	assert.Equal(t, ds.Size(), d1.Size())

	_, err = st.Transform("bogus")
	assert.Error(t, err)
}

func TestTreeStateWeightsShared(t *testing.T) {
	m := mock.NewMocker(281)
	ds := m.TwoClassDataset("train", 4, 1)
	st := NewTreeState(ds, 11)
	w1 := st.WDTWWeights(0.5, 25)
	w2 := st.WDTWWeights(0.5, 25)
	assert.Len(t, w1, 25)
	// Same backing array: computed once per (g, length).
	assert.Same(t, &w1[0], &w2[0])
}

func TestGeneratorsDrawValidParameters(t *testing.T) {
	m := mock.NewMocker(283)
	ds := m.TwoClassDataset("train", 6, 1)
	st := NewTreeState(ds, 13)
	bcm := nodeBCM(t, ds)

	winTop := (st.MaxLength() + 1) / 4
	for _, gen := range DefaultGenerators() {
		for trial := 0; trial < 10; trial++ {
			cand, err := gen.Generate(st, bcm)
			require.NoError(t, err)
			require.NotNil(t, cand.Metric)
			assert.Contains(t, DefaultTransforms, cand.Transform)
			switch mt := cand.Metric.(type) {
			case distance.DTWMetric:
				if mt.Window != core.NoWindow {
					assert.LessOrEqual(t, mt.Window, winTop)
				}
			case distance.ERPMetric:
				assert.LessOrEqual(t, mt.Window, winTop)
				assert.GreaterOrEqual(t, mt.Gap, 0.0)
			case distance.WDTWMetric:
				assert.GreaterOrEqual(t, mt.G, 0.0)
				assert.Less(t, mt.G, 1.0)
				assert.Len(t, mt.Weights, st.MaxLength())
			case distance.ADTWMetric:
				assert.GreaterOrEqual(t, mt.Omega, 0.0)
			case distance.MSMMetric:
				assert.GreaterOrEqual(t, mt.Cost, 0.01)
				assert.Less(t, mt.Cost, 100.0)
			}
		}
	}
}
