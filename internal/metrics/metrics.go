package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LOOCVPairsEvaluated counts (query, candidate) work items completed by
	// the LOOCV engine.
	LOOCVPairsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "strider_loocv_pairs_evaluated_total",
		Help: "Total number of LOOCV (query, candidate) pairs evaluated",
	})

	// LOOCVDegenerateQueries counts queries whose every candidate distance
	// came back +Inf.
	LOOCVDegenerateQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "strider_loocv_degenerate_queries_total",
		Help: "Total number of LOOCV queries with no finite candidate distance",
	})

	// SplitterNodesGenerated counts proximity splitter nodes generated.
	SplitterNodesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "strider_splitter_nodes_generated_total",
		Help: "Total number of proximity splitter nodes generated, by distance",
	}, []string{"distance"})

	// ForestTreesGrown counts fully grown proximity trees.
	ForestTreesGrown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "strider_forest_trees_grown_total",
		Help: "Total number of proximity trees grown",
	})

	// ForestActiveWorkers tracks tree-growing workers currently running.
	ForestActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strider_forest_active_workers",
		Help: "Current number of active tree-growing workers",
	})
)
