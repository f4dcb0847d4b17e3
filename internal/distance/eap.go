package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
)

// The double-buffered dynamic programming core with pruning and early
// abandoning shared by every elastic kernel. A kernel instantiates it with
// three transition cost closures:
//
//	diag(i,j)  cost of the (i-1,j-1) -> (i,j) move; diag(0,0) is the first cell
//	above(i,j) cost of the (i-1,j)   -> (i,j) move
//	left(i,j)  cost of the (i,j-1)   -> (i,j) move
//
// window restricts reachable cells to |i-j| <= window (core.NoWindow lifts
// the constraint). Sentinel resolution (NaN / +Inf) happens in resolveCutoff
// before this runs; an infinite cutoff here simply disables pruning. Returns
// the exact distance when it is <= cutoff, +Inf otherwise.
//
// Row by row the core tracks nextStart (leftmost column still reachable) and
// prevPP (one past the last column of the previous row with value <= ub),
// narrowing the computed band. ub is cutoff tightened by the cost of the last
// alignment so that intermediate comparisons can use a plain <=.
func eapDist(nbLines, nbCols, window int, diag, above, left CostFn, cutoff float64, buf *Buffer) float64 {
	// Tighter upper bound: the last alignment enters the corner cell through
	// one of the three moves, so any surviving prefix must leave room for the
	// cheapest of them.
	ub := cutoff
	if nbCols >= 2 {
		la := core.Min3(
			diag(nbLines-1, nbCols-1),
			left(nbLines-1, nbCols-1),
			above(nbLines-1, nbCols-1),
		)
		ub = math.Nextafter(cutoff, core.PInf) - la
	}

	// Double buffer with one +Inf border cell per row so that reads one left
	// of a row's first computed column resolve to +Inf.
	buffer := buf.rows(2*(nbCols+1), core.PInf)
	c, p := 1, nbCols+2

	i, j := 0, 0
	nextStart, prevPP := 0, 0
	cost := 0.0

	// First line. The first cell early-abandons the whole computation when
	// already above ub; the rest of the line only has the "left" predecessor.
	{
		cost = diag(0, 0)
		buffer[c+0] = cost
		if cost <= ub {
			prevPP = 1
		} else {
			return core.PInf
		}
		jStop := nbCols
		if window+1 < jStop {
			jStop = window + 1
		}
		for j = 1; j < jStop; j++ {
			cost = cost + left(0, j)
			buffer[c+j] = cost
			if cost <= ub {
				prevPP = j + 1
			} else {
				// Single-line corner: the tightened bound does not apply to
				// the final cell.
				if nbLines == 1 && j == nbCols-1 && cost <= cutoff {
					return cost
				}
				break
			}
		}
		i++
	}

	for ; i < nbLines; i++ {
		c, p = p, c
		jStart := nextStart
		if i-window > jStart {
			jStart = i - window
		}
		jStop := nbCols
		if i+window+1 < jStop {
			jStop = i + window + 1
		}
		nextStart = jStart
		currPP := jStart
		j = jStart
		// Left border of the band resolves to +Inf for the next row's diag.
		buffer[c+jStart-1] = core.PInf
		// Stage 1: advance nextStart, diag and above only (no left neighbour
		// computed yet on this row).
		for ; j == nextStart && j < prevPP; j++ {
			cost = core.Min2(buffer[p+j-1]+diag(i, j), buffer[p+j]+above(i, j))
			buffer[c+j] = cost
			if cost <= ub {
				currPP = j + 1
			} else {
				nextStart++
			}
		}
		// Stage 2: before the previous pruning point, all three moves.
		for ; j < prevPP; j++ {
			cost = core.Min3(buffer[p+j-1]+diag(i, j), cost+left(i, j), buffer[p+j]+above(i, j))
			buffer[c+j] = cost
			if cost <= ub {
				currPP = j + 1
			}
		}
		// Stage 3: at the previous pruning point.
		if j < jStop {
			if j == nextStart {
				// Only the diagonal is available.
				cost = buffer[p+j-1] + diag(i, j)
				buffer[c+j] = cost
				if cost <= ub {
					currPP = j + 1
				} else {
					// One valid cell left: report it if within the original cutoff.
					if i == nbLines-1 && j == nbCols-1 && cost <= cutoff {
						return cost
					}
					return core.PInf
				}
			} else {
				cost = core.Min2(cost+left(i, j), buffer[p+j-1]+diag(i, j))
				buffer[c+j] = cost
				if cost <= ub {
					currPP = j + 1
				}
			}
			j++
		} else if j == nextStart {
			// The whole row was consumed while advancing nextStart.
			if cost > cutoff {
				return core.PInf
			}
			nextStart = nbCols - 1
		}
		// Stage 4: past the previous pruning point, left only; stop as soon
		// as the pruning point fails to advance.
		for ; j == currPP && j < jStop; j++ {
			cost = cost + left(i, j)
			buffer[c+j] = cost
			if cost <= ub {
				currPP++
			}
		}
		prevPP = currPP
	}

	// The alignment exists iff the last row reached the last column, and its
	// value passes the original (untightened) cutoff.
	if j == nbCols && cost <= cutoff {
		return cost
	}
	return core.PInf
}

// resolveCutoff maps the two cutoff sentinels onto the pruning bound used by
// the core: NaN disables pruning entirely (bound +Inf), +Inf enables pruning
// under the diagonal upper bound, any other value is used as given.
func resolveCutoff(cutoff float64, nbLines, nbCols int, diag, above, left CostFn) float64 {
	if math.IsNaN(cutoff) {
		return core.PInf
	}
	if math.IsInf(cutoff, 1) {
		return diagonalUB(nbLines, nbCols, diag, above, left)
	}
	return cutoff
}

// diagonalUB walks the matrix diagonal and then the last line or column to
// the corner: the cost of that path bounds the true distance from above.
func diagonalUB(nbLines, nbCols int, diag, above, left CostFn) float64 {
	m := nbLines
	if nbCols < m {
		m = nbCols
	}
	ub := 0.0
	for i := 0; i < m; i++ {
		ub += diag(i, i)
	}
	switch {
	case nbLines < nbCols:
		for j := nbLines; j < nbCols; j++ {
			ub += left(nbLines-1, j)
		}
	case nbCols < nbLines:
		for i := nbCols; i < nbLines; i++ {
			ub += above(i, nbCols-1)
		}
	}
	return ub
}
