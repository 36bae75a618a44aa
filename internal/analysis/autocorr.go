package analysis

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Autocorrelation returns the sample autocorrelation of x at lags
// 0..maxLag, computed through the power spectrum. Draws from a copula are
// independent, so every lag above 0 should be near zero.
func Autocorrelation(x []float64, maxLag int) []float64 {
	n := len(x)
	if n < 2 || maxLag < 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	// zero padding to 2n keeps the circular correlation from wrapping
	m := 2 * n
	seq := make([]float64, m)
	copy(seq, x)
	floats.AddConst(-stat.Mean(x, nil), seq[:n])

	fft := fourier.NewFFT(m)
	coeff := fft.Coefficients(nil, seq)
	for i, c := range coeff {
		coeff[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	r := fft.Sequence(nil, coeff)

	out := make([]float64, maxLag+1)
	if r[0] == 0 {
		return out
	}
	for k := range out {
		out[k] = r[k] / r[0]
	}
	return out
}
