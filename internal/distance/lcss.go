package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// LCSS is the Longest Common Subsequence dissimilarity: two points match when
// their distance is within epsilon, and the value is 1 - matches/min(nA,nB).
// The match count DP is monotone, so the kernel abandons a computation as
// soon as the matches still reachable cannot bring the value under the
// cutoff. Values are bounded by 1, so the +Inf cutoff sentinel needs no
// diagonal seeding.
func LCSS(a, b series.Series, epsilon float64, window int, cutoff float64, buf *Buffer) float64 {
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

	co := cutoff
	if math.IsNaN(co) || math.IsInf(co, 1) {
		co = core.PInf
	}
	minLen := float64(nbCols)

	var match func(i, j int) bool
	if a.Dims() == 1 {
		av, bv := a.Values(), b.Values()
		match = func(i, j int) bool { return math.Abs(av[i]-bv[j]) <= epsilon }
	} else {
		match = func(i, j int) bool { return ed(a, b, i, j) <= epsilon }
	}

	if buf == nil {
		buf = getBuffer()
		defer putBuffer(buf)
	}
	// Match counts are small integers; they live exactly in the shared
	// float64 scratch rows.
	buffer := buf.rows(2*(nbCols+1), 0)
	cur, prev := buffer[:nbCols+1], buffer[nbCols+1:]

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
			cur[j] = 0
		}
		lineMax := 0.0
		for j := l; j < r; j++ {
			var m float64
			if match(i-1, j-1) {
				m = prev[j-1] + 1
			} else {
				m = math.Max(cur[j-1], prev[j])
			}
			cur[j] = m
			if m > lineMax {
				lineMax = m
			}
		}
		// Each remaining line can add at most one match.
		if best := 1 - (lineMax+float64(nbLines-i))/minLen; best > co {
			return core.PInf
		}
	}

	v := 1 - cur[nbCols]/minLen
	if v <= co {
		return v
	}
	return core.PInf
}
