package interp

// Mode selects an interpolation algorithm. Values follow the numbering used by
// generator interp parameters.
type Mode int

const (
	// None truncates the fractional index. Mode 0 is accepted as an alias.
	None Mode = 1
	// Linear blends the two neighbouring samples.
	Linear Mode = 2
	// Cosine blends the two neighbouring samples along a raised-cosine curve.
	Cosine Mode = 3
	// Cubic fits a 4-point Lagrange polynomial through table[i-1..i+2].
	Cubic Mode = 4
)

// Func reads table at integer index i with fractional part f in [0,1].
// size is the nominal table length; table must hold size+1 samples.
type Func func(table []float64, i int, f float64, size int) float64

// Normalize maps mode to the canonical value used by Select.
// Mode 0 maps to None; unknown modes map to Linear.
func Normalize(mode Mode) Mode {
	switch mode {
	case 0, None:
		return None
	case Linear, Cosine, Cubic:
		return mode
	default:
		return Linear
	}
}

// Select returns the kernel for mode. Invalid modes select Linear.
func Select(mode Mode) Func {
	switch Normalize(mode) {
	case None:
		return NoInterp
	case Cosine:
		return CosineInterp
	case Cubic:
		return CubicInterp
	default:
		return LinearInterp
	}
}

// Interpolate reads table at i+f using mode.
func Interpolate(table []float64, i int, f float64, size int, mode Mode) float64 {
	return Select(mode)(table, i, f, size)
}

// NoInterp returns table[i].
func NoInterp(table []float64, i int, _ float64, _ int) float64 {
	return table[i]
}

// LinearInterp returns table[i]*(1-f) + table[i+1]*f.
// Both endpoints are reproduced exactly.
func LinearInterp(table []float64, i int, f float64, _ int) float64 {
	return table[i]*(1-f) + table[i+1]*f
}

// CosineInterp blends table[i] and table[i+1] with a raised-cosine weight.
func CosineInterp(table []float64, i int, f float64, _ int) float64 {
	w := CosineWeight(f)
	return table[i]*(1-w) + table[i+1]*w
}

// CubicInterp evaluates a 4-point Lagrange cubic between table[i] and table[i+1].
// The outer points are clamped to table[0] and the guard sample table[size].
func CubicInterp(table []float64, i int, f float64, size int) float64 {
	var x0 float64
	if i == 0 {
		x0 = table[0]
	} else {
		x0 = table[i-1]
	}

	x1 := table[i]
	x2 := table[i+1]

	var x3 float64
	if i+2 > size {
		x3 = table[size]
	} else {
		x3 = table[i+2]
	}

	a3 := (f*f - 1) * (1.0 / 6.0)
	a2 := (f + 1) * 0.5
	a0 := a2 - 1
	a1 := a3 * 3
	a2 -= a1
	a0 -= a3
	a1 -= f
	a0 *= f
	a1 = a1*f + 1
	a2 *= f
	a3 *= f

	return a0*x0 + a1*x1 + a2*x2 + a3*x3
}

// Split separates a non-negative position into its integer and fractional parts.
func Split(pos float64) (int, float64) {
	ipart := int(pos)
	return ipart, pos - float64(ipart)
}
