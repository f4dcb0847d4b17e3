// Package forest grows proximity forests: ensembles of trees whose nodes
// partition series by 1-NN against randomly drawn exemplars and elastic
// distances. The forest is thin bookkeeping around the splitter contract;
// the classification power lives in the kernels.
package forest

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/distance"
	"github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/metrics"
	"github.com/strider-ts/strider/internal/series"
	"github.com/strider-ts/strider/internal/splitter"
)

// Options configures forest training.
type Options struct {
	NbTrees      int // default 100
	NbCandidates int // candidate splitters per node, default 5
	NbThreads    int // default hardware concurrency + 2
	Seed         int64
}

func (o Options) withDefaults() Options {
	if o.NbTrees <= 0 {
		o.NbTrees = 100
	}
	if o.NbCandidates <= 0 {
		o.NbCandidates = 5
	}
	if o.NbThreads <= 0 {
		o.NbThreads = runtime.NumCPU() + 2
	}
	return o
}

// node is one tree node: either a routing splitter with children, or a leaf.
type node struct {
	split    *splitter.Splitter
	children []*node
	leaf     core.Label
	isLeaf   bool
}

// Tree is one grown proximity tree.
type Tree struct {
	root *node
}

// Forest is a trained ensemble.
type Forest struct {
	trees []*Tree
	train series.Dataset
	opts  Options
}

// Train grows opts.NbTrees trees in parallel over the labeled train dataset.
// Each tree owns a TreeState seeded from opts.Seed and its tree index, so a
// fixed seed reproduces the forest for any thread count.
func Train(ctx context.Context, train series.Dataset, gen splitter.Generator, opts Options, logger *zap.Logger) (*Forest, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	bcm, err := series.NewByClassMap(train, series.FullIndexSet(train.Size()))
	if err != nil {
		return nil, err
	}
	logger.Info("forest training starting",
		zap.Int("nb_trees", opts.NbTrees),
		zap.Int("nb_candidates", opts.NbCandidates),
		zap.Int("nb_threads", opts.NbThreads))

	trees := make([]*Tree, opts.NbTrees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.NbThreads)
	for i := 0; i < opts.NbTrees; i++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.NewComputationError("forest.Train", fmt.Sprintf("tree worker panic: %v", r))
				}
			}()
			if e := gctx.Err(); e != nil {
				return errors.NewCancelledError("forest.Train", "training cancelled")
			}
			metrics.ForestActiveWorkers.Inc()
			defer metrics.ForestActiveWorkers.Dec()
			st := splitter.NewTreeState(train, opts.Seed+int64(i))
			root, err := grow(st, bcm, gen, opts.NbCandidates)
			if err != nil {
				return err
			}
			trees[i] = &Tree{root: root}
			metrics.ForestTreesGrown.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Forest{trees: trees, train: train, opts: opts}, nil
}

// grow recurses over class partitions until purity. Among NbCandidates drawn
// splitters the one with the lowest weighted Gini impurity wins; a draw that
// fails to separate the node at all becomes a majority leaf.
func grow(st *splitter.TreeState, bcm series.ByClassMap, gen splitter.Generator, nbCandidates int) (*node, error) {
	if bcm.IsPure() {
		return &node{isLeaf: true, leaf: bcm.MajorityClass()}, nil
	}
	var best splitter.Result
	bestPurity := core.PInf
	for c := 0; c < nbCandidates; c++ {
		res, err := splitter.Build(st, bcm, gen)
		if err != nil {
			return nil, err
		}
		if p := splitter.Purity(res.Branches); p < bestPurity {
			bestPurity = p
			best = res
		}
	}
	parentSize := bcm.Size()
	for _, branch := range best.Branches {
		if branch.Size() == parentSize {
			// The split did not separate anything; stop here.
			return &node{isLeaf: true, leaf: bcm.MajorityClass()}, nil
		}
	}
	children := make([]*node, len(best.Branches))
	for i, branch := range best.Branches {
		if branch.Size() == 0 {
			// Empty branch: predict the class the branch position stands for.
			children[i] = &node{isLeaf: true, leaf: branch.Classes()[0]}
			continue
		}
		child, err := grow(st, branch, gen, nbCandidates)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return &node{split: best.Splitter, children: children}, nil
}

// Predict classifies every series of test by majority vote across trees.
// Votes tie-break uniformly with the prediction PRNG.
func (f *Forest) Predict(ctx context.Context, test series.Dataset, seed int64) ([]core.Label, error) {
	n := test.Size()
	votes := make([][]string, n)
	for q := range votes {
		votes[q] = make([]string, len(f.trees))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.NbThreads)
	for t := range f.trees {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.NewComputationError("forest.Predict", fmt.Sprintf("predict worker panic: %v", r))
				}
			}()
			if e := gctx.Err(); e != nil {
				return errors.NewCancelledError("forest.Predict", "prediction cancelled")
			}
			pc := newPredictContext(test, seed+int64(t))
			for q := 0; q < n; q++ {
				label, err := f.trees[t].predict(pc, q)
				if err != nil {
					return err
				}
				votes[q][t] = label
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	out := make([]core.Label, n)
	for q := 0; q < n; q++ {
		out[q] = majority(votes[q], rng)
	}
	return out, nil
}

// predictContext caches test-side transforms for one worker.
type predictContext struct {
	base       series.Dataset
	transforms map[string]series.Dataset
	rng        *rand.Rand
	buf        *distance.Buffer
}

func newPredictContext(test series.Dataset, seed int64) *predictContext {
	return &predictContext{
		base:       test,
		transforms: map[string]series.Dataset{"raw": test},
		rng:        rand.New(rand.NewSource(seed)),
		buf:        distance.NewBuffer(test.Header().LengthMax),
	}
}

func (pc *predictContext) transform(name string) (series.Dataset, error) {
	if ds, ok := pc.transforms[name]; ok {
		return ds, nil
	}
	ds, err := series.ApplyTransform(pc.base, name)
	if err != nil {
		return series.Dataset{}, err
	}
	pc.transforms[name] = ds
	return ds, nil
}

func (t *Tree) predict(pc *predictContext, queryIdx int) (core.Label, error) {
	cur := t.root
	for !cur.isLeaf {
		ds, err := pc.transform(cur.split.Transform)
		if err != nil {
			return "", err
		}
		branch := cur.split.BranchIndex(ds.At(queryIdx), pc.rng, pc.buf)
		cur = cur.children[branch]
	}
	return cur.leaf, nil
}

// majority returns the most frequent vote, sampling uniformly among tied
// winners.
func majority(votes []string, rng *rand.Rand) core.Label {
	counts := map[string]int{}
	for _, v := range votes {
		counts[v]++
	}
	bestN := 0
	for _, c := range counts {
		if c > bestN {
			bestN = c
		}
	}
	var winners []string
	for v, c := range counts {
		if c == bestN {
			winners = append(winners, v)
		}
	}
	if len(winners) == 1 {
		return winners[0]
	}
	// Map iteration order is random; sort for a reproducible tie sample.
	sort.Strings(winners)
	return core.PickOne(winners, rng)
}
