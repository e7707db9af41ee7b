// Package spectral measures the fundamental, harmonic content and level of
// rendered generator output.
package spectral

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultLowerHz      = 20.0
	defaultMaxHarmonics = 10
	// Hann main lobe half-width in signal bins, plus one for scalloping.
	lobeBins = 3
)

// Config holds analysis parameters. Zero values select defaults.
type Config struct {
	SampleRate float64
	// FFTSize is rounded up to a power of two no shorter than the signal.
	FFTSize int
	// LowerFreq and UpperFreq bound the fundamental search.
	LowerFreq float64
	UpperFreq float64
	// MaxHarmonics counts harmonics above the fundamental.
	MaxHarmonics int
}

// Result holds the analysis of one signal.
type Result struct {
	// Fundamental is the strongest peak in the search range, refined by
	// parabolic interpolation, in Hz.
	Fundamental float64
	// Level is the estimated amplitude of the fundamental.
	Level float64
	// Harmonics holds the amplitude of harmonic k+2 relative to Level.
	Harmonics []float64
	THD       float64
	RMS       float64
	Peak      float64
	// Magnitude is the one-sided magnitude spectrum of the windowed signal.
	Magnitude []float64
	BinHz     float64
}

// Analyze windows signal with a Hann window, transforms it and measures the
// fundamental and its harmonics. An empty signal yields an empty Result.
//
//nolint:funlen,cyclop
func Analyze(signal []float64, cfg Config) Result {
	if len(signal) < 2 {
		return Result{}
	}

	cfg = normalizeConfig(cfg, len(signal))

	res := Result{RMS: rms(signal), Peak: peak(signal)}

	coeffs := window.Generate(window.TypeHann, len(signal))
	windowed := make([]float64, len(signal))
	vecmath.MulBlock(windowed, signal, coeffs)

	in := make([]complex128, cfg.FFTSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return res
	}

	out := make([]complex128, cfg.FFTSize)
	if err := plan.Forward(out, in); err != nil {
		return res
	}

	bins := cfg.FFTSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i], im[i] = real(out[i]), imag(out[i])
	}

	res.Magnitude = make([]float64, bins)
	vecmath.Magnitude(res.Magnitude, re, im)

	res.BinHz = cfg.SampleRate / float64(cfg.FFTSize)
	maxBin := bins - 1

	lower := core.ClampInt(int(math.Ceil(cfg.LowerFreq/res.BinHz)), 1, maxBin)
	upper := core.ClampInt(int(math.Floor(cfg.UpperFreq/res.BinHz)), lower, maxBin)

	best := lower
	for i := lower; i <= upper; i++ {
		if res.Magnitude[i] > res.Magnitude[best] {
			best = i
		}
	}

	if res.Magnitude[best] <= 0 {
		return res
	}

	res.Fundamental = (float64(best) + parabolicOffset(res.Magnitude, best)) * res.BinHz

	capture := lobeBins * int(math.Ceil(float64(cfg.FFTSize)/float64(len(signal))))
	energyScale := 4 / (float64(cfg.FFTSize) * sumSquares(coeffs))

	res.Level = math.Sqrt(bandEnergy(res.Magnitude, best, capture) * energyScale)
	if res.Level == 0 {
		return res
	}

	sum := 0.0
	for k := 2; k <= cfg.MaxHarmonics+1; k++ {
		bin := int(math.Round(res.Fundamental * float64(k) / res.BinHz))
		if bin+capture > maxBin {
			break
		}

		rel := math.Sqrt(bandEnergy(res.Magnitude, bin, capture)*energyScale) / res.Level
		res.Harmonics = append(res.Harmonics, rel)
		sum += rel * rel
	}

	res.THD = math.Sqrt(sum)

	return res
}

// THDdB returns the total harmonic distortion in decibels.
func (r Result) THDdB() float64 {
	return core.LinearToDB(r.THD)
}

func normalizeConfig(cfg Config, n int) Config {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(n)
	}

	cfg.FFTSize = nextPowerOf2(max(cfg.FFTSize, n))

	if cfg.LowerFreq <= 0 {
		cfg.LowerFreq = defaultLowerHz
	}

	nyquist := cfg.SampleRate / 2
	if cfg.UpperFreq <= 0 || cfg.UpperFreq > nyquist {
		cfg.UpperFreq = nyquist
	}

	if cfg.UpperFreq < cfg.LowerFreq {
		cfg.UpperFreq = cfg.LowerFreq
	}

	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}

	return cfg
}

// parabolicOffset fits a parabola through the log magnitudes around bin and
// returns the vertex offset in bins, within [-0.5, 0.5].
func parabolicOffset(mag []float64, bin int) float64 {
	if bin < 1 || bin+1 >= len(mag) {
		return 0
	}

	a, b, c := logPositive(mag[bin-1]), logPositive(mag[bin]), logPositive(mag[bin+1])

	den := a - 2*b + c
	if den == 0 || math.IsInf(den, 0) || math.IsNaN(den) {
		return 0
	}

	return math.Max(-0.5, math.Min(0.5, 0.5*(a-c)/den))
}

func bandEnergy(mag []float64, bin, half int) float64 {
	lo := max(bin-half, 0)
	hi := min(bin+half, len(mag)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i] * mag[i]
	}

	return sum
}

func sumSquares(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v * v
	}
	return s
}

func rms(x []float64) float64 {
	return math.Sqrt(sumSquares(x) / float64(len(x)))
}

func peak(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

func logPositive(v float64) float64 {
	if v <= 0 {
		return -1e300
	}
	return math.Log(v)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
