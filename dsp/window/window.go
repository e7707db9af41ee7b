package window

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function. The numbering matches the envelope
// table kinds accepted by generator patches.
type Type int

const (
	TypeRectangular Type = iota
	TypeHamming
	TypeHann
	TypeBartlett
	TypeBlackman
	TypeBlackmanHarris4Term
	TypeBlackmanHarris7Term
	TypeTukey
	TypeSine
)

// DefaultTukeyAlpha is the taper ratio used when no alpha is configured.
const DefaultTukeyAlpha = 0.66

var (
	hammingCoeffs         = []float64{0.54, -0.46}
	hannCoeffs            = []float64{0.5, -0.5}
	blackmanCoeffs        = []float64{0.42, -0.5, 0.08}
	blackmanHarris4Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	blackmanHarris7Coeffs = []float64{
		0.27105140069342, -0.43329793923448, 0.21812299954311, -0.06592544638803,
		0.01081174209837, -0.00077658482522, 0.00001388721735,
	}
)

var names = map[Type]string{
	TypeRectangular:         "rectangular",
	TypeHamming:             "hamming",
	TypeHann:                "hann",
	TypeBartlett:            "bartlett",
	TypeBlackman:            "blackman",
	TypeBlackmanHarris4Term: "blackman-harris-4t",
	TypeBlackmanHarris7Term: "blackman-harris-7t",
	TypeTukey:               "tukey",
	TypeSine:                "sine",
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

// WithAlpha sets the taper ratio of the Tukey window, in [0,1].
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 && v <= 1 {
			c.alpha = v
		}
	}
}

// WithPeriodic generates the periodic form (FFT framing) instead of the symmetric one.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// String returns the lower-case name of t, or "" for unknown types.
func (t Type) String() string {
	return names[t]
}

// Parse resolves a window name as returned by Type.String.
func Parse(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range names {
		if n == name {
			return t, nil
		}
	}

	return 0, unknownType(name)
}

// Types returns all window types in numeric order.
func Types() []Type {
	out := make([]Type, 0, len(names))
	for t := TypeRectangular; t <= TypeSine; t++ {
		out = append(out, t)
	}

	return out
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := config{alpha: DefaultTukeyAlpha}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = eval(t, position(i, length, cfg.periodic), cfg)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Hann returns symmetric Hann window coefficients.
func Hann(size int) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	return Generate(TypeHann, size), nil
}

// Tukey returns Tukey window coefficients with taper ratio alpha.
func Tukey(size int, alpha float64) ([]float64, error) {
	if err := validateTukey(size, alpha); err != nil {
		return nil, err
	}

	return Generate(TypeTukey, size, WithAlpha(alpha)), nil
}

// CoherentGain returns sum(w)/N, the DC gain of the window.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return sum / float64(len(coeffs)), nil
}

func eval(t Type, x float64, cfg config) float64 {
	switch t {
	case TypeRectangular:
		return 1
	case TypeHamming:
		return cosineSum(x, hammingCoeffs)
	case TypeHann:
		return cosineSum(x, hannCoeffs)
	case TypeBartlett:
		return 1 - math.Abs(2*x-1)
	case TypeBlackman:
		return cosineSum(x, blackmanCoeffs)
	case TypeBlackmanHarris4Term:
		return cosineSum(x, blackmanHarris4Coeffs)
	case TypeBlackmanHarris7Term:
		return cosineSum(x, blackmanHarris7Coeffs)
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	case TypeSine:
		return math.Sin(math.Pi * x)
	default:
		return 1
	}
}

func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func position(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return cosineSum(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
