package interp

import "math"

// CurveSize is the number of segments in the precomputed blend curves.
const CurveSize = 512

// cosineCurve holds 0.5-0.5*cos(pi*k/CurveSize) for k in [0, CurveSize],
// plus one guard point.
var cosineCurve = func() []float64 {
	c := make([]float64, CurveSize+2)
	for k := 0; k <= CurveSize; k++ {
		c[k] = 0.5 - 0.5*math.Cos(math.Pi*float64(k)/CurveSize)
	}
	c[0] = 0
	c[CurveSize] = 1
	c[CurveSize+1] = 1

	return c
}()

// CosineWeight returns the raised-cosine blend weight for f in [0,1].
// CosineWeight(0) is exactly 0 and CosineWeight(1) is exactly 1.
func CosineWeight(f float64) float64 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 1
	}

	k, g := Split(f * CurveSize)

	return cosineCurve[k]*(1-g) + cosineCurve[k+1]*g
}
