// Package loocv selects distance hyperparameters by parallel leave-one-out
// cross-validation over a candidate grid, then scores the winner on a test
// set with the same early-abandoning 1-NN rule.
package loocv

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/distance"
	"github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/metrics"
	"github.com/strider-ts/strider/internal/series"
)

// Grid is the ordered list of candidate metrics. Order matters twice: within
// a work item the metrics run in grid order against a shrinking cutoff, so
// cheaper or stricter parameters should come first; and the final tie-break
// prefers the lowest grid index.
type Grid []distance.Metric

// Result is the outcome of one evaluation pass.
type Result struct {
	NbCorrect  int
	Accuracy   float64
	Time       time.Duration
	Degenerate int
}

// Outcome pairs the winning grid index with its train and test results.
type Outcome struct {
	BestIndex int
	Train     Result
	Test      Result
}

// Options tunes the engine.
type Options struct {
	// NbThreads is the worker pool size; 0 means hardware concurrency + 2.
	NbThreads int
	// Deadline, when non-zero, is checked between work items.
	Deadline time.Time
}

// Run evaluates every grid entry by LOOCV over train, picks the winner
// (highest accuracy, then lowest summed nearest-neighbour distance, then
// lowest index) and scores it against test. Fixing rng's seed and the grid
// yields identical results for any thread count.
func Run(ctx context.Context, train, test series.Dataset, grid Grid, opts Options, rng *rand.Rand, logger *zap.Logger) (Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := train.Size()
	if n == 0 {
		return Outcome{}, errors.NewValidationError("loocv.Run", "empty training set")
	}
	if len(grid) == 0 {
		return Outcome{}, errors.NewValidationError("loocv.Run", "empty parameter grid")
	}
	nbThreads := opts.NbThreads
	if nbThreads <= 0 {
		nbThreads = runtime.NumCPU() + 2
	}

	trainLabels := make([]core.EL, n)
	for q := 0; q < n; q++ {
		el, ok := train.LabelIndex(q)
		if !ok {
			return Outcome{}, errors.NewValidationError("loocv.Run", "unlabeled training series").
				WithContext("index", q)
		}
		trainLabels[q] = el
	}

	logger.Info("loocv train phase starting",
		zap.Int("train_size", n),
		zap.Int("grid_size", len(grid)),
		zap.Int("nb_threads", nbThreads))

	startTrain := time.Now()
	tab, err := fillTable(ctx, train, grid, n, nbThreads, opts.Deadline)
	if err != nil {
		return Outcome{}, err
	}

	// Finalization is sequential: the PRNG draws happen in a fixed (k, q)
	// order so the outcome does not depend on worker scheduling.
	nbClasses := len(train.Header().Labels)
	correct := make([]int, len(grid))
	degenerate := make([]int, len(grid))
	sums := make([]float64, len(grid))
	for k := range grid {
		for q := 0; q < n; q++ {
			d, ties := tab.tieSet(q, k)
			sums[k] += d
			var predicted core.EL
			if len(ties) == 0 {
				// Every candidate was +Inf under this parameter.
				degenerate[k]++
				predicted = core.EL(rng.Intn(nbClasses))
			} else {
				predicted = core.PickOne(ties, rng)
			}
			if predicted == trainLabels[q] {
				correct[k]++
			}
		}
	}

	best := 0
	for k := 1; k < len(grid); k++ {
		if correct[k] > correct[best] || (correct[k] == correct[best] && sums[k] < sums[best]) {
			best = k
		}
	}
	trainResult := Result{
		NbCorrect:  correct[best],
		Accuracy:   float64(correct[best]) / float64(n),
		Time:       time.Since(startTrain),
		Degenerate: degenerate[best],
	}
	if degenerate[best] > 0 {
		metrics.LOOCVDegenerateQueries.Add(float64(degenerate[best]))
	}
	logger.Info("loocv train phase done",
		zap.Int("best_index", best),
		zap.String("distance", grid[best].Name()),
		zap.Float64("accuracy", trainResult.Accuracy),
		zap.Duration("time", trainResult.Time))

	testResult, err := testPhase(ctx, train, test, grid[best], trainLabels, nbClasses, nbThreads, opts.Deadline, rng)
	if err != nil {
		return Outcome{}, err
	}
	logger.Info("loocv test phase done",
		zap.Float64("accuracy", testResult.Accuracy),
		zap.Duration("time", testResult.Time))

	return Outcome{BestIndex: best, Train: trainResult, Test: testResult}, nil
}

// fillTable runs every (query, candidate) pair over the worker pool. Workers
// pull indices from a shared atomic counter and own a scratch buffer each.
func fillTable(ctx context.Context, train series.Dataset, grid Grid, n, nbThreads int, deadline time.Time) (*table, error) {
	tab := newTable(n, len(grid))
	nbPairs := int64(n) * int64(n-1)
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < nbThreads; w++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.NewComputationError("loocv.fillTable", fmt.Sprintf("worker panic: %v", r))
				}
			}()
			buf := distance.NewBuffer(train.Header().LengthMax)
			for {
				t := next.Add(1) - 1
				if t >= nbPairs {
					return nil
				}
				if e := checkStop(gctx, deadline, "loocv.fillTable"); e != nil {
					return e
				}
				q := int(t / int64(n-1))
				c := int(t % int64(n-1))
				if c >= q {
					c++
				}
				sq, sc := train.At(q), train.At(c)
				label, _ := train.LabelIndex(c)
				for k, m := range grid {
					d := m.Eval(sq, sc, tab.cutoff(q, k), buf)
					tab.update(q, k, d, label)
				}
				metrics.LOOCVPairsEvaluated.Inc()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tab, nil
}

// testPhase scores metric against the test set: 1-NN over the whole training
// set per test query, parallel across queries.
func testPhase(ctx context.Context, train, test series.Dataset, metric distance.Metric, trainLabels []core.EL, nbClasses, nbThreads int, deadline time.Time, rng *rand.Rand) (Result, error) {
	m := test.Size()
	n := train.Size()
	start := time.Now()
	ties := make([][]core.EL, m)
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < nbThreads; w++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.NewComputationError("loocv.testPhase", fmt.Sprintf("worker panic: %v", r))
				}
			}()
			maxLen := train.Header().LengthMax
			if test.Header().LengthMax > maxLen {
				maxLen = test.Header().LengthMax
			}
			buf := distance.NewBuffer(maxLen)
			for {
				t := next.Add(1) - 1
				if t >= int64(m) {
					return nil
				}
				if e := checkStop(gctx, deadline, "loocv.testPhase"); e != nil {
					return e
				}
				q := int(t)
				sq := test.At(q)
				bsf := core.PInf
				var labels []core.EL
				for c := 0; c < n; c++ {
					d := metric.Eval(sq, train.At(c), bsf, buf)
					if d < bsf {
						bsf = d
						labels = append(labels[:0], trainLabels[c])
					} else if d == bsf && !math.IsInf(d, 1) {
						labels = appendUnique(labels, trainLabels[c])
					}
				}
				sort.Ints(labels)
				ties[q] = labels
			}
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Time: time.Since(start)}
	for q := 0; q < m; q++ {
		var predicted core.EL
		if len(ties[q]) == 0 {
			res.Degenerate++
			predicted = core.EL(rng.Intn(nbClasses))
		} else {
			predicted = core.PickOne(ties[q], rng)
		}
		if el, ok := test.LabelIndex(q); ok && el == predicted {
			res.NbCorrect++
		}
	}
	if m > 0 {
		res.Accuracy = float64(res.NbCorrect) / float64(m)
	}
	return res, nil
}

func appendUnique(labels []core.EL, l core.EL) []core.EL {
	for _, x := range labels {
		if x == l {
			return labels
		}
	}
	return append(labels, l)
}

// checkStop maps the two between-items stop conditions onto error kinds.
func checkStop(ctx context.Context, deadline time.Time, op string) error {
	select {
	case <-ctx.Done():
		return errors.NewCancelledError(op, "evaluation cancelled")
	default:
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		return errors.NewTimeoutError(op, "wall-clock deadline exceeded")
	}
	return nil
}
