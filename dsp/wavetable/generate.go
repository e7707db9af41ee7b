package wavetable

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-synth/dsp/window"
)

// Point is one breakpoint of a segment table.
type Point struct {
	Index int
	Value float64
}

// Harm builds a periodic table as a weighted sum of harmonics.
// amps[k] weights harmonic k+1; no amps gives a pure sine.
func Harm(size int, sr float64, amps ...float64) (*Buffer, error) {
	if len(amps) == 0 {
		amps = []float64{1}
	}

	return periodic(size, sr, func(x float64) float64 {
		v := 0.0
		for k, a := range amps {
			if a != 0 {
				v += a * math.Sin(2*math.Pi*float64(k+1)*x)
			}
		}
		return v
	})
}

// Saw builds a band-limited sawtooth from order harmonics with 1/k amplitudes.
func Saw(size int, sr float64, order int) (*Buffer, error) {
	if order < 1 {
		order = 1
	}

	amps := make([]float64, order)
	for k := range amps {
		amps[k] = 1 / float64(k+1)
	}

	return Harm(size, sr, amps...)
}

// Square builds a band-limited square wave from order harmonics; only odd
// harmonics are non-zero.
func Square(size int, sr float64, order int) (*Buffer, error) {
	if order < 1 {
		order = 1
	}

	amps := make([]float64, order)
	for k := 0; k < order; k += 2 {
		amps[k] = 1 / float64(k+1)
	}

	return Harm(size, sr, amps...)
}

// Cheby builds a one-shot transfer function sum(amps[k] * T_{k+1}(x)) for
// x sweeping [-1,1], for use with Lookup waveshaping.
func Cheby(size int, sr float64, amps ...float64) (*Buffer, error) {
	if len(amps) == 0 {
		amps = []float64{1}
	}

	b, err := New(size, sr)
	if err != nil {
		return nil, err
	}

	for i := range size {
		x := 2*float64(i)/float64(size) - 1
		// T0 = 1, T1 = x, Tn+1 = 2x*Tn - Tn-1
		prev, cur := 1.0, x
		v := 0.0
		for _, a := range amps {
			v += a * cur
			prev, cur = cur, 2*x*cur-prev
		}
		b.data[i] = v
	}
	b.data[size] = b.data[size-1]

	return b, nil
}

// Window builds a one-shot envelope table from a window function.
func Window(t window.Type, size int, sr float64) (*Buffer, error) {
	coeffs := window.Generate(t, size)
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: size %d", ErrEmpty, size)
	}

	return FromSamples(coeffs, sr)
}

// Hann is shorthand for a Hann envelope table.
func Hann(size int, sr float64) (*Buffer, error) {
	return Window(window.TypeHann, size, sr)
}

// Lin builds a one-shot table from straight segments joining points.
// Without points it ramps from 0 to 1.
func Lin(size int, sr float64, points ...Point) (*Buffer, error) {
	return segments(size, sr, points, func(t float64, _, _ float64) float64 {
		return t
	})
}

// Cos builds a one-shot table from half-cosine segments joining points.
func Cos(size int, sr float64, points ...Point) (*Buffer, error) {
	return segments(size, sr, points, func(t float64, _, _ float64) float64 {
		return 0.5 - 0.5*math.Cos(math.Pi*t)
	})
}

// Exp builds a one-shot table from exponential segments joining points.
// exp shapes every segment as t^exp; with inverse set, falling segments use
// 1-(1-t)^exp so they mirror the rising ones.
func Exp(size int, sr, exp float64, inverse bool, points ...Point) (*Buffer, error) {
	if exp <= 0 {
		exp = 1
	}

	return segments(size, sr, points, func(t float64, y0, y1 float64) float64 {
		if inverse && y1 < y0 {
			return 1 - math.Pow(1-t, exp)
		}
		return math.Pow(t, exp)
	})
}

func segments(size int, sr float64, points []Point, shape func(t, y0, y1 float64) float64) (*Buffer, error) {
	b, err := New(size, sr)
	if err != nil {
		return nil, err
	}

	pts := normalizePoints(points, size)
	for s := 0; s+1 < len(pts); s++ {
		p0, p1 := pts[s], pts[s+1]
		span := p1.Index - p0.Index
		if span <= 0 {
			continue
		}

		for i := p0.Index; i <= p1.Index; i++ {
			t := float64(i-p0.Index) / float64(span)
			b.data[i] = p0.Value + (p1.Value-p0.Value)*shape(t, p0.Value, p1.Value)
		}
	}

	holdLast(b, pts)
	return b, nil
}

// Curve builds a one-shot table from Hermite segments through points.
// tension tightens the curve at the points (1 high, 0 normal, -1 low); bias
// twists each segment toward its first point when positive and toward its
// second when negative. The outer segments extrapolate linearly for their
// missing neighbour.
func Curve(size int, sr, tension, bias float64, points ...Point) (*Buffer, error) {
	b, err := New(size, sr)
	if err != nil {
		return nil, err
	}

	pts := normalizePoints(points, size)
	for s := 0; s+1 < len(pts); s++ {
		p1, p2 := pts[s], pts[s+1]
		span := p2.Index - p1.Index
		if span <= 0 {
			continue
		}

		y1, y2 := p1.Value, p2.Value
		y0 := 2*y1 - y2
		if s > 0 {
			y0 = pts[s-1].Value
		}
		y3 := 2*y2 - y1
		if s+2 < len(pts) {
			y3 = pts[s+2].Value
		}

		for i := p1.Index; i <= p2.Index; i++ {
			mu := float64(i-p1.Index) / float64(span)
			b.data[i] = hermite(y0, y1, y2, y3, mu, tension, bias)
		}
	}

	holdLast(b, pts)
	return b, nil
}

func hermite(y0, y1, y2, y3, mu, tension, bias float64) float64 {
	k := (1 - tension) / 2
	m0 := (y1-y0)*(1+bias)*k + (y2-y1)*(1-bias)*k
	m1 := (y2-y1)*(1+bias)*k + (y3-y2)*(1-bias)*k

	mu2 := mu * mu
	mu3 := mu2 * mu
	a0 := 2*mu3 - 3*mu2 + 1
	a1 := mu3 - 2*mu2 + mu
	a2 := mu3 - mu2
	a3 := -2*mu3 + 3*mu2

	return a0*y1 + a1*m0 + a2*m1 + a3*y2
}

// holdLast repeats the final point value to the end of the table and sets
// the one-shot guard.
func holdLast(b *Buffer, pts []Point) {
	size := b.Size()
	last := pts[len(pts)-1]
	for i := last.Index; i < size; i++ {
		b.data[i] = last.Value
	}
	b.data[size] = b.data[size-1]
}

// normalizePoints sorts points, clamps their indices into the table and
// anchors the first point at index 0.
func normalizePoints(points []Point, size int) []Point {
	if len(points) == 0 {
		return []Point{{0, 0}, {size - 1, 1}}
	}

	pts := append([]Point(nil), points...)
	for i := range pts {
		pts[i].Index = max(0, min(pts[i].Index, size-1))
	}

	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Index < pts[j].Index })

	if pts[0].Index != 0 {
		pts = append([]Point{{0, pts[0].Value}}, pts...)
	}

	return pts
}
