package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// ERP is the Edit distance with Real Penalty: warping moves align a point
// against the constant gap value gv instead of repeating a neighbour, so the
// distance is a metric. window bounds the warping band; gap borders remain
// reachable next to the band.
//
// ERP runs on the bordered (n+1)x(m+1) grid because its first line and column
// are genuine gap alignments, not +Inf walls. The border detours adjacent to
// the band do not fit the shared skeleton's uniform band, so this kernel
// keeps the reference cell coverage and abandons per line: every complete
// path crosses each line through a computed cell, so a line whose cheapest
// cell exceeds the tightened bound can no longer beat the cutoff.
func ERP(a, b series.Series, e, gv float64, window int, cutoff float64, buf *Buffer) float64 {
	nbLines, nbCols := a.Length(), b.Length()
	if nbLines == 0 && nbCols == 0 {
		return 0
	}
	if nbLines == 0 || nbCols == 0 {
		return core.PInf
	}
	// Symmetric: keep the shorter series on the columns.
	if nbCols > nbLines {
		a, b = b, a
		nbLines, nbCols = nbCols, nbLines
	}
	if window > nbLines {
		window = nbLines
	}
	if nbLines-nbCols > window {
		return core.PInf
	}

	d := ade(a, b, e)
	gapLines := adeGap(a, gv, e)
	gapCols := adeGap(b, gv, e)
	// Bordered coordinates: cell (i, j) is ref matrix[i][j], series points are
	// at i-1 / j-1.
	diag := func(i, j int) float64 {
		if i == 0 {
			return 0
		}
		return d(i-1, j-1)
	}
	above := func(i, j int) float64 { return gapLines(i - 1) }
	left := func(i, j int) float64 { return gapCols(j - 1) }

	co := resolveCutoff(cutoff, nbLines+1, nbCols+1, diag, above, left)
	la := core.Min3(diag(nbLines, nbCols), left(nbLines, nbCols), above(nbLines, nbCols))
	ub := math.Nextafter(co, core.PInf) - la

	if buf == nil {
		buf = getBuffer()
		defer putBuffer(buf)
	}
	buffer := buf.rows(2*(nbCols+1), core.PInf)
	cur, prev := buffer[:nbCols+1], buffer[nbCols+1:]

	// Border line: prefix sums of the column gap costs. Only the cells the
	// next line can read (j <= window+1) matter.
	jStop0 := nbCols + 1
	if window+2 < jStop0 {
		jStop0 = window + 2
	}
	cur[0] = 0
	for j := 1; j < jStop0; j++ {
		cur[j] = cur[j-1] + left(0, j)
	}

	for i := 1; i <= nbLines; i++ {
		cur, prev = prev, cur
		l := i - window
		if l < 1 {
			l = 1
		}
		r := i + window + 1
		if r > nbCols+1 {
			r = nbCols + 1
		}
		for j := range cur {
			cur[j] = core.PInf
		}
		// Border column: gap-align every line point so far.
		cur[0] = prev[0] + above(i, 0)
		lineMin := core.PInf
		if i <= window+1 {
			lineMin = cur[0]
		}
		for j := l; j < r; j++ {
			c := core.Min3(
				cur[j-1]+left(i, j),
				prev[j-1]+diag(i, j),
				prev[j]+above(i, j),
			)
			cur[j] = c
			if c < lineMin {
				lineMin = c
			}
		}
		if i < nbLines && lineMin > ub {
			return core.PInf
		}
	}

	if v := cur[nbCols]; v <= co {
		return v
	}
	return core.PInf
}
