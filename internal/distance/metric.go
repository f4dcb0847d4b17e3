package distance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/series"
)

// Metric is the erased elastic distance: a concrete parameter record with an
// evaluate capability. Splitters and the LOOCV engine store the record, not a
// bare function pointer, so parameters stay reportable.
type Metric interface {
	// Eval computes the distance under the shared cutoff contract. buf may be
	// nil; supplying one keeps the hot path allocation free.
	Eval(a, b series.Series, cutoff float64, buf *Buffer) float64
	// Name is the reporting name of the distance family.
	Name() string
	// Params is the parameter record for JSON reporting.
	Params() map[string]any
}

// DTWMetric is DTW / CDTW. Window == core.NoWindow lifts the band.
type DTWMetric struct {
	Exponent float64
	Window   int
}

func (m DTWMetric) Eval(a, b series.Series, cutoff float64, buf *Buffer) float64 {
	return CDTW(a, b, m.Exponent, m.Window, cutoff, buf)
}

func (m DTWMetric) Name() string { return "dtw" }

func (m DTWMetric) Params() map[string]any {
	w := -1
	if m.Window != core.NoWindow {
		w = m.Window
	}
	return map[string]any{"e": m.Exponent, "window": w}
}

// ADTWMetric is the amerced DTW with warping penalty Omega.
type ADTWMetric struct {
	Exponent float64
	Omega    float64
}

func (m ADTWMetric) Eval(a, b series.Series, cutoff float64, buf *Buffer) float64 {
	return ADTW(a, b, m.Exponent, m.Omega, cutoff, buf)
}

func (m ADTWMetric) Name() string { return "adtw" }

func (m ADTWMetric) Params() map[string]any {
	return map[string]any{"e": m.Exponent, "omega": m.Omega}
}

// WDTWMetric carries the precomputed weight vector next to the g that
// produced it. Weights are shared read-only across kernel calls.
type WDTWMetric struct {
	Exponent float64
	G        float64
	Weights  []float64
}

func (m WDTWMetric) Eval(a, b series.Series, cutoff float64, buf *Buffer) float64 {
	return WDTW(a, b, m.Exponent, m.Weights, cutoff, buf)
}

func (m WDTWMetric) Name() string { return "wdtw" }

func (m WDTWMetric) Params() map[string]any {
	return map[string]any{"e": m.Exponent, "g": m.G}
}

// ERPMetric is ERP with gap value Gap and band Window.
type ERPMetric struct {
	Exponent float64
	Gap      float64
	Window   int
}

func (m ERPMetric) Eval(a, b series.Series, cutoff float64, buf *Buffer) float64 {
	return ERP(a, b, m.Exponent, m.Gap, m.Window, cutoff, buf)
}

func (m ERPMetric) Name() string { return "erp" }

func (m ERPMetric) Params() map[string]any {
	w := -1
	if m.Window != core.NoWindow {
		w = m.Window
	}
	return map[string]any{"e": m.Exponent, "gv": m.Gap, "window": w}
}

// LCSSMetric is LCSS with tolerance Epsilon and band Window.
type LCSSMetric struct {
	Epsilon float64
	Window  int
}

func (m LCSSMetric) Eval(a, b series.Series, cutoff float64, buf *Buffer) float64 {
	return LCSS(a, b, m.Epsilon, m.Window, cutoff, buf)
}

func (m LCSSMetric) Name() string { return "lcss" }

func (m LCSSMetric) Params() map[string]any {
	w := -1
	if m.Window != core.NoWindow {
		w = m.Window
	}
	return map[string]any{"epsilon": m.Epsilon, "window": w}
}

// MSMMetric is MSM with split/merge cost Cost.
type MSMMetric struct {
	Cost float64
}

func (m MSMMetric) Eval(a, b series.Series, cutoff float64, buf *Buffer) float64 {
	return MSM(a, b, m.Cost, cutoff, buf)
}

func (m MSMMetric) Name() string { return "msm" }

func (m MSMMetric) Params() map[string]any { return map[string]any{"c": m.Cost} }

// TWEMetric is TWE with stiffness Nu and penalty Lambda.
type TWEMetric struct {
	Nu     float64
	Lambda float64
}

func (m TWEMetric) Eval(a, b series.Series, cutoff float64, buf *Buffer) float64 {
	return TWE(a, b, m.Nu, m.Lambda, cutoff, buf)
}

func (m TWEMetric) Name() string { return "twe" }

func (m TWEMetric) Params() map[string]any {
	return map[string]any{"nu": m.Nu, "lambda": m.Lambda}
}

// DirectMetric is the direct alignment baseline.
type DirectMetric struct {
	Exponent float64
}

func (m DirectMetric) Eval(a, b series.Series, cutoff float64, _ *Buffer) float64 {
	return DirectA(a, b, m.Exponent, cutoff)
}

func (m DirectMetric) Name() string { return "directa" }

func (m DirectMetric) Params() map[string]any { return map[string]any{"e": m.Exponent} }

// SBDMetric is the shape-based distance.
type SBDMetric struct{}

func (SBDMetric) Eval(a, b series.Series, _ float64, _ *Buffer) float64 { return SBD(a, b) }

func (SBDMetric) Name() string { return "sbd" }

func (SBDMetric) Params() map[string]any { return map[string]any{} }

// LorentzianMetric is the lockstep Lorentzian distance.
type LorentzianMetric struct{}

func (LorentzianMetric) Eval(a, b series.Series, _ float64, _ *Buffer) float64 {
	return Lorentzian(a, b)
}

func (LorentzianMetric) Name() string { return "lorentzian" }

func (LorentzianMetric) Params() map[string]any { return map[string]any{} }

// MinkowskiMetric is the modified Minkowski distance (no e-th root).
type MinkowskiMetric struct {
	Exponent float64
}

func (m MinkowskiMetric) Eval(a, b series.Series, _ float64, _ *Buffer) float64 {
	return ModMinkowski(a, b, m.Exponent)
}

func (m MinkowskiMetric) Name() string { return "modminkowski" }

func (m MinkowskiMetric) Params() map[string]any { return map[string]any{"e": m.Exponent} }

// ParseMetric resolves a distance spec string ("dtw:2:10", "msm:0.5", ...)
// into a Metric. maxLen is the longest series length of the datasets the
// metric will run against (WDTW weight generation). A negative window in the
// spec means "no window". Unknown distance names report as configuration
// errors; malformed parameters as validation errors.
func ParseMetric(spec string, maxLen int) (Metric, error) {
	parts := strings.Split(spec, ":")
	name := parts[0]
	bad := func(msg string) error {
		return errors.NewValidationError("distance.ParseMetric", msg).WithContext("distance", name)
	}
	f := func(i int) (float64, error) {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, bad(fmt.Sprintf("parameter %d must be a float", i))
		}
		return v, nil
	}
	win := func(i int) (int, error) {
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, bad(fmt.Sprintf("parameter %d must be an integer window", i))
		}
		if v < 0 {
			return core.NoWindow, nil
		}
		return v, nil
	}
	exponent := func(i int) (float64, error) {
		e, err := f(i)
		if err != nil {
			return 0, err
		}
		if e < 1 {
			return 0, bad("exponent must be >= 1")
		}
		return e, nil
	}

	switch name {
	case "modminkowski":
		if len(parts) != 2 {
			return nil, bad("usage: modminkowski:<e>")
		}
		e, err := exponent(1)
		if err != nil {
			return nil, err
		}
		return MinkowskiMetric{Exponent: e}, nil
	case "lorentzian":
		return LorentzianMetric{}, nil
	case "sbd":
		return SBDMetric{}, nil
	case "directa":
		if len(parts) != 2 {
			return nil, bad("usage: directa:<e>")
		}
		e, err := exponent(1)
		if err != nil {
			return nil, err
		}
		return DirectMetric{Exponent: e}, nil
	case "dtw":
		if len(parts) != 3 {
			return nil, bad("usage: dtw:<e>:<w>")
		}
		e, err := exponent(1)
		if err != nil {
			return nil, err
		}
		w, err := win(2)
		if err != nil {
			return nil, err
		}
		return DTWMetric{Exponent: e, Window: w}, nil
	case "adtw":
		if len(parts) != 3 {
			return nil, bad("usage: adtw:<e>:<omega>")
		}
		e, err := exponent(1)
		if err != nil {
			return nil, err
		}
		omega, err := f(2)
		if err != nil {
			return nil, err
		}
		if omega < 0 {
			return nil, bad("omega must be >= 0")
		}
		return ADTWMetric{Exponent: e, Omega: omega}, nil
	case "wdtw":
		if len(parts) != 3 {
			return nil, bad("usage: wdtw:<e>:<g>")
		}
		e, err := exponent(1)
		if err != nil {
			return nil, err
		}
		g, err := f(2)
		if err != nil {
			return nil, err
		}
		if g < 0 || g > 1 {
			return nil, bad("g must be in [0, 1]")
		}
		return WDTWMetric{Exponent: e, G: g, Weights: GenerateWeights(g, maxLen)}, nil
	case "erp":
		if len(parts) != 4 {
			return nil, bad("usage: erp:<e>:<gv>:<w>")
		}
		e, err := exponent(1)
		if err != nil {
			return nil, err
		}
		gv, err := f(2)
		if err != nil {
			return nil, err
		}
		w, err := win(3)
		if err != nil {
			return nil, err
		}
		return ERPMetric{Exponent: e, Gap: gv, Window: w}, nil
	case "lcss":
		if len(parts) != 3 {
			return nil, bad("usage: lcss:<epsilon>:<w>")
		}
		eps, err := f(1)
		if err != nil {
			return nil, err
		}
		if eps < 0 {
			return nil, bad("epsilon must be >= 0")
		}
		w, err := win(2)
		if err != nil {
			return nil, err
		}
		return LCSSMetric{Epsilon: eps, Window: w}, nil
	case "msm":
		if len(parts) != 2 {
			return nil, bad("usage: msm:<c>")
		}
		c, err := f(1)
		if err != nil {
			return nil, err
		}
		return MSMMetric{Cost: c}, nil
	case "twe":
		if len(parts) != 3 {
			return nil, bad("usage: twe:<nu>:<lambda>")
		}
		nu, err := f(1)
		if err != nil {
			return nil, err
		}
		lambda, err := f(2)
		if err != nil {
			return nil, err
		}
		if nu < 0 || lambda < 0 {
			return nil, bad("nu and lambda must be >= 0")
		}
		return TWEMetric{Nu: nu, Lambda: lambda}, nil
	}
	return nil, errors.NewConfigurationError("distance.ParseMetric", "unknown distance").
		WithContext("distance", name)
}
