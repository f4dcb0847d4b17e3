package distance

import (
	"math"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/series"
)

// Naive full-matrix reference implementations. They mirror the accumulation
// order of the pruned kernels so equality checks can demand bit-exact
// results.

func refCostAt(a, b series.Series, e float64, i, j int) float64 {
	dims := a.Dims()
	sum := 0.0
	for k := 0; k < dims; k++ {
		sum += costAt(a.At(i, k)-b.At(j, k), e)
	}
	return sum
}

func refDTW(a, b series.Series, e float64, window int) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 && lb == 0 {
		return 0
	}
	if la == 0 || lb == 0 {
		return core.PInf
	}
	if lb > la {
		a, b = b, a
		la, lb = lb, la
	}
	if window > la {
		window = la
	}
	if la-lb > window {
		return core.PInf
	}
	m := newMatrix(la+1, lb+1, core.PInf)
	m[0][0] = 0
	for i := 1; i <= la; i++ {
		lo, hi := i-window, i+window
		if lo < 1 {
			lo = 1
		}
		if hi > lb {
			hi = lb
		}
		for j := lo; j <= hi; j++ {
			m[i][j] = core.Min3(m[i][j-1], m[i-1][j-1], m[i-1][j]) + refCostAt(a, b, e, i-1, j-1)
		}
	}
	return m[la][lb]
}

func refADTW(a, b series.Series, e, omega float64) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 && lb == 0 {
		return 0
	}
	if la == 0 || lb == 0 {
		return core.PInf
	}
	if lb > la {
		a, b = b, a
		la, lb = lb, la
	}
	m := newMatrix(la+1, lb+1, core.PInf)
	m[0][0] = 0
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			d := refCostAt(a, b, e, i-1, j-1)
			m[i][j] = core.Min3(m[i][j-1]+(d+omega), m[i-1][j-1]+d, m[i-1][j]+(d+omega))
		}
	}
	return m[la][lb]
}

func refWDTW(a, b series.Series, e float64, weights []float64) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 && lb == 0 {
		return 0
	}
	if la == 0 || lb == 0 {
		return core.PInf
	}
	if lb > la {
		a, b = b, a
		la, lb = lb, la
	}
	m := newMatrix(la+1, lb+1, core.PInf)
	m[0][0] = 0
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			k := i - j
			if k < 0 {
				k = -k
			}
			d := refCostAt(a, b, e, i-1, j-1) * weights[k]
			m[i][j] = core.Min3(m[i][j-1], m[i-1][j-1], m[i-1][j]) + d
		}
	}
	return m[la][lb]
}

func refERP(a, b series.Series, e, gv float64, window int) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 && lb == 0 {
		return 0
	}
	if la == 0 || lb == 0 {
		return core.PInf
	}
	if lb > la {
		a, b = b, a
		la, lb = lb, la
	}
	if window > la {
		window = la
	}
	if la-lb > window {
		return core.PInf
	}
	gapA := adeGap(a, gv, e)
	gapB := adeGap(b, gv, e)
	d := ade(a, b, e)
	m := newMatrix(la+1, lb+1, core.PInf)
	m[0][0] = 0
	for j := 1; j <= lb; j++ {
		m[0][j] = m[0][j-1] + gapB(j-1)
	}
	for i := 1; i <= la; i++ {
		m[i][0] = m[i-1][0] + gapA(i-1)
	}
	for i := 1; i <= la; i++ {
		lo, hi := i-window, i+window
		if lo < 1 {
			lo = 1
		}
		if hi > lb {
			hi = lb
		}
		for j := lo; j <= hi; j++ {
			m[i][j] = core.Min3(
				m[i][j-1]+gapB(j-1),
				m[i-1][j-1]+d(i-1, j-1),
				m[i-1][j]+gapA(i-1),
			)
		}
	}
	return m[la][lb]
}

func refLCSS(a, b series.Series, epsilon float64, window int) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 && lb == 0 {
		return 0
	}
	if la == 0 || lb == 0 {
		return core.PInf
	}
	if lb > la {
		a, b = b, a
		la, lb = lb, la
	}
	if window > la {
		window = la
	}
	if la-lb > window {
		return core.PInf
	}
	m := newMatrix(la+1, lb+1, 0)
	for i := 1; i <= la; i++ {
		lo, hi := i-window, i+window
		if lo < 1 {
			lo = 1
		}
		if hi > lb {
			hi = lb
		}
		for j := lo; j <= hi; j++ {
			if ed(a, b, i-1, j-1) <= epsilon {
				m[i][j] = m[i-1][j-1] + 1
			} else {
				m[i][j] = math.Max(m[i][j-1], m[i-1][j])
			}
		}
	}
	return 1 - m[la][lb]/float64(lb)
}

func refMSM(a, b series.Series, c float64) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 && lb == 0 {
		return 0
	}
	if la == 0 || lb == 0 {
		return core.PInf
	}
	if lb > la {
		a, b = b, a
		la, lb = lb, la
	}
	av, bv := a.Values(), b.Values()
	m := newMatrix(la, lb, core.PInf)
	m[0][0] = math.Abs(av[0] - bv[0])
	for i := 1; i < la; i++ {
		m[i][0] = m[i-1][0] + msmCost1(av[i], av[i-1], bv[0], c)
	}
	for j := 1; j < lb; j++ {
		m[0][j] = m[0][j-1] + msmCost1(bv[j], bv[j-1], av[0], c)
	}
	for i := 1; i < la; i++ {
		for j := 1; j < lb; j++ {
			m[i][j] = core.Min3(
				m[i-1][j-1]+math.Abs(av[i]-bv[j]),
				m[i][j-1]+msmCost1(bv[j], bv[j-1], av[i], c),
				m[i-1][j]+msmCost1(av[i], av[i-1], bv[j], c),
			)
		}
	}
	return m[la-1][lb-1]
}

func refTWE(a, b series.Series, nu, lambda float64) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 && lb == 0 {
		return 0
	}
	if la == 0 || lb == 0 {
		return core.PInf
	}
	dab := sqe(a, b)
	daa := sqe(a, a)
	dbb := sqe(b, b)
	nuLambda := nu + lambda
	nu2 := 2 * nu
	// Additions pair as (cell + transitionCost): the same association the
	// kernel's cost closures produce, so equality checks hold bit-exactly.
	m := newMatrix(la, lb, core.PInf)
	m[0][0] = dab(0, 0)
	for i := 1; i < la; i++ {
		m[i][0] = m[i-1][0] + (daa(i, i-1) + nuLambda)
	}
	for j := 1; j < lb; j++ {
		m[0][j] = m[0][j-1] + (dbb(j, j-1) + nuLambda)
	}
	for i := 1; i < la; i++ {
		for j := 1; j < lb; j++ {
			k := i - j
			if k < 0 {
				k = -k
			}
			top := m[i-1][j] + (daa(i, i-1) + nuLambda)
			diag := m[i-1][j-1] + (dab(i, j) + dab(i-1, j-1) + nu2*float64(k))
			prev := m[i][j-1] + (dbb(j, j-1) + nuLambda)
			m[i][j] = core.Min3(diag, prev, top)
		}
	}
	return m[la-1][lb-1]
}

func newMatrix(rows, cols int, fill float64) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		row := make([]float64, cols)
		for j := range row {
			row[j] = fill
		}
		m[i] = row
	}
	return m
}
