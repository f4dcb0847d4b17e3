package distance

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/strider-ts/strider/internal/series"
)

// SBD is the Shape-Based Distance: 1 minus the maximum of the normalized
// cross-correlation over all shifts. The correlation is computed through an
// FFT of the zero-padded series, covering both shift directions. SBD ignores
// the cutoff (no pruning) and stays within [0, 2].
//
// Multivariate series correlate per dimension; the per-shift correlations sum
// across dimensions and normalize by the product of the Frobenius norms.
func SBD(a, b series.Series) float64 {
	na, nb := a.Length(), b.Length()
	if na == 0 && nb == 0 {
		return 0
	}
	if na == 0 || nb == 0 {
		return 1
	}
	normA := frobenius(a)
	normB := frobenius(b)
	if normA == 0 || normB == 0 {
		return 1
	}

	fftN := nextPow2(na + nb - 1)
	fft := fourier.NewFFT(fftN)
	dims := a.Dims()

	padA := make([]float64, fftN)
	padB := make([]float64, fftN)
	cross := make([]complex128, fftN/2+1)
	for k := 0; k < dims; k++ {
		for i := range padA {
			padA[i] = 0
		}
		for i := range padB {
			padB[i] = 0
		}
		for i := 0; i < na; i++ {
			padA[i] = a.At(i, k)
		}
		for i := 0; i < nb; i++ {
			padB[i] = b.At(i, k)
		}
		ca := fft.Coefficients(nil, padA)
		cb := fft.Coefficients(nil, padB)
		for i := range cross {
			cross[i] += ca[i] * cmplx.Conj(cb[i])
		}
	}
	cc := fft.Sequence(nil, cross)

	// Valid lags only: padding introduces zero-overlap slots that would floor
	// the correlation at 0. Index k holds lag k, index fftN-k holds lag -k.
	best := math.Inf(-1)
	for k := 0; k < na; k++ {
		if cc[k] > best {
			best = cc[k]
		}
	}
	for k := 1; k < nb; k++ {
		if v := cc[fftN-k]; v > best {
			best = v
		}
	}
	// The gonum inverse transform is unnormalized.
	best /= float64(fftN)
	return 1 - best/(normA*normB)
}

func frobenius(s series.Series) float64 {
	sum := 0.0
	for _, v := range s.Values() {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
