// Package splitter generates proximity-tree node splitters: sample one
// exemplar per class, draw distance hyperparameters, and partition the node's
// series by 1-NN classification against the exemplars.
package splitter

import (
	"math/rand"
	"sort"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/distance"
	"github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/metrics"
	"github.com/strider-ts/strider/internal/series"
)

// Splitter routes a query series to one of the node's branches by 1-NN
// against the stored per-class exemplars. It is built at train time and
// replayed verbatim at test time.
type Splitter struct {
	Exemplars      []int                  // one train index per class, in class order
	ExemplarLabels []core.Label           // label of each exemplar
	LabelsToIndex  map[core.Label]int     // label -> branch position
	Metric         distance.Metric        // the drawn, fully parameterized kernel
	Transform      string                 // transform the metric runs on
	trainData      series.Dataset         // exemplar storage under Transform
}

// Result is the outcome of generating one splitter: the per-branch class
// partitions for recursion, and the splitter itself for test-time routing.
type Result struct {
	Branches []series.ByClassMap
	Splitter *Splitter
}

// Build samples a splitter for the node described by bcm: one exemplar per
// class, a candidate metric from gen, then a 1-NN pass over every index in
// bcm (exemplars included). Branches are indexed by the parent's class order;
// a class whose branch received no members still yields a single-class empty
// partition so recursion always sees a well-defined class set.
func Build(st *TreeState, bcm series.ByClassMap, gen Generator) (Result, error) {
	if bcm.NbClasses() == 0 {
		return Result{}, errors.NewValidationError("splitter.Build", "empty class map")
	}
	cand, err := gen.Generate(st, bcm)
	if err != nil {
		return Result{}, err
	}
	ds, err := st.Transform(cand.Transform)
	if err != nil {
		return Result{}, err
	}

	exemplars := bcm.PickOneByClass(st.Rng)
	classes := bcm.Classes()
	labelsToIndex := bcm.LabelsToIndex()

	sp := &Splitter{
		Exemplars:      exemplars,
		ExemplarLabels: classes,
		LabelsToIndex:  labelsToIndex,
		Metric:         cand.Metric,
		Transform:      cand.Transform,
		trainData:      ds,
	}

	partitions := make([]map[core.Label][]int, len(classes))
	for i := range partitions {
		partitions[i] = map[core.Label][]int{}
	}
	for _, queryIdx := range bcm.IndexSet() {
		branch := sp.route(ds.At(queryIdx), st.Rng, st.Buffer())
		trueLabel, ok := ds.At(queryIdx).Label()
		if !ok {
			return Result{}, errors.NewValidationError("splitter.Build", "unlabeled series in node").
				WithContext("index", queryIdx)
		}
		partitions[branch][trueLabel] = append(partitions[branch][trueLabel], queryIdx)
	}

	branches := make([]series.ByClassMap, len(classes))
	for _, label := range classes {
		idx := labelsToIndex[label]
		if len(partitions[idx]) == 0 {
			partitions[idx][label] = []int{}
		}
	}
	for idx, part := range partitions {
		order := make([]core.Label, 0, len(part))
		for l := range part {
			order = append(order, l)
		}
		sort.Strings(order)
		branches[idx] = series.FromMap(order, part)
	}

	metrics.SplitterNodesGenerated.WithLabelValues(cand.Metric.Name()).Inc()
	return Result{Branches: branches, Splitter: sp}, nil
}

// route runs the 1-NN loop against the exemplars with the best-so-far as
// cutoff. Exemplars at the same best distance all contribute their label once
// and the tie is sampled uniformly.
func (sp *Splitter) route(query series.Series, rng *rand.Rand, buf *distance.Buffer) int {
	bsf := core.PInf
	var labels []core.Label
	for i, exIdx := range sp.Exemplars {
		ex := sp.trainData.At(exIdx)
		d := sp.Metric.Eval(ex, query, bsf, buf)
		if d < bsf {
			labels = append(labels[:0], sp.ExemplarLabels[i])
			bsf = d
		} else if d == bsf {
			l := sp.ExemplarLabels[i]
			seen := false
			for _, v := range labels {
				if v == l {
					seen = true
					break
				}
			}
			if !seen {
				labels = append(labels, l)
			}
		}
	}
	predicted := core.PickOne(labels, rng)
	return sp.LabelsToIndex[predicted]
}

// BranchIndex routes a test query (already under the splitter's transform) to
// its branch.
func (sp *Splitter) BranchIndex(query series.Series, rng *rand.Rand, buf *distance.Buffer) int {
	return sp.route(query, rng, buf)
}

// Purity returns the weighted Gini impurity of a split, used to rank
// candidate splitters: lower impurity wins.
func Purity(branches []series.ByClassMap) float64 {
	total := 0
	for _, b := range branches {
		total += b.Size()
	}
	if total == 0 {
		return 0
	}
	impurity := 0.0
	for _, b := range branches {
		n := b.Size()
		if n == 0 {
			continue
		}
		gini := 1.0
		for _, l := range b.Classes() {
			p := float64(len(b.Members(l))) / float64(n)
			gini -= p * p
		}
		impurity += float64(n) / float64(total) * gini
	}
	return impurity
}
