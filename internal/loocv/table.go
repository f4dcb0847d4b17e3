package loocv

import (
	"math"
	"sort"
	"sync"

	"github.com/strider-ts/strider/internal/core"
)

// cell is the best-so-far state of one (query, parameter) pair: the smallest
// distance seen and the deduplicated labels of every candidate reaching it.
type cell struct {
	dist   float64
	labels []core.EL
}

// table is the shared N x K best-so-far table. Updates follow the
// "strictly smaller replaces, equal appends" discipline under one mutex per
// query row; the candidate visit order therefore cannot change the final
// content of a cell.
type table struct {
	k     int
	cells [][]cell
	rows  []sync.Mutex
}

func newTable(n, k int) *table {
	cells := make([][]cell, n)
	for q := range cells {
		row := make([]cell, k)
		for i := range row {
			row[i] = cell{dist: core.PInf}
		}
		cells[q] = row
	}
	return &table{k: k, cells: cells, rows: make([]sync.Mutex, n)}
}

// cutoff reads the current best distance of (q, k): any candidate farther
// than this cannot influence the cell.
func (t *table) cutoff(q, k int) float64 {
	t.rows[q].Lock()
	d := t.cells[q][k].dist
	t.rows[q].Unlock()
	return d
}

// update merges one candidate evaluation into (q, k).
func (t *table) update(q, k int, d float64, label core.EL) {
	if math.IsInf(d, 1) {
		return
	}
	t.rows[q].Lock()
	c := &t.cells[q][k]
	switch {
	case d < c.dist:
		c.dist = d
		c.labels = append(c.labels[:0], label)
	case d == c.dist:
		found := false
		for _, l := range c.labels {
			if l == label {
				found = true
				break
			}
		}
		if !found {
			c.labels = append(c.labels, label)
		}
	}
	t.rows[q].Unlock()
}

// tieSet returns the sorted tie labels of (q, k). Sorting makes the
// finalization sampling independent of candidate arrival order, which is what
// keeps results identical across thread counts.
func (t *table) tieSet(q, k int) (float64, []core.EL) {
	c := t.cells[q][k]
	labels := make([]core.EL, len(c.labels))
	copy(labels, c.labels)
	sort.Ints(labels)
	return c.dist, labels
}
