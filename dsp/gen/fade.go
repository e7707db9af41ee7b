package gen

import (
	"fmt"
	"math"
)

// XfadeShape selects the curve used for loop crossfades.
type XfadeShape int

const (
	XfadeLinear XfadeShape = iota
	XfadePower
	XfadeSigmoid
)

// fadeSize is the number of segments in each fade curve.
const fadeSize = 512

var (
	linearFade  = newFade(func(x float64) float64 { return x })
	powerFade   = newFade(func(x float64) float64 { return math.Sin(x * math.Pi / 2) })
	sigmoidFade = newFade(func(x float64) float64 { return 0.5 - 0.5*math.Cos(x*math.Pi) })
)

func newFade(shape func(float64) float64) *[fadeSize + 1]float64 {
	var f [fadeSize + 1]float64
	for i := range f {
		f[i] = shape(float64(i) / fadeSize)
	}
	f[0], f[fadeSize] = 0, 1
	return &f
}

func (s XfadeShape) curve() *[fadeSize + 1]float64 {
	switch s {
	case XfadePower:
		return powerFade
	case XfadeSigmoid:
		return sigmoidFade
	default:
		return linearFade
	}
}

// String implements fmt.Stringer.
func (s XfadeShape) String() string {
	switch s {
	case XfadeLinear:
		return "linear"
	case XfadePower:
		return "power"
	case XfadeSigmoid:
		return "sigmoid"
	default:
		return fmt.Sprintf("XfadeShape(%d)", int(s))
	}
}

// fadeAt reads a fade curve at x in [0, fadeSize] with linear interpolation.
// Positions outside the curve read its end points.
func fadeAt(f *[fadeSize + 1]float64, x float64) float64 {
	if x <= 0 {
		return f[0]
	}
	if x >= fadeSize {
		return f[fadeSize]
	}
	i := int(x)
	frac := x - float64(i)
	return f[i] + (f[i+1]-f[i])*frac
}
