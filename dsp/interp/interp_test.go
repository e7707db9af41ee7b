package interp

import (
	"math"
	"testing"
)

func testTable(size int) []float64 {
	t := make([]float64, size+1)
	for i := range size {
		t[i] = math.Sin(2*math.Pi*float64(i)/float64(size)) + 0.1*float64(i%3)
	}
	t[size] = t[0]
	return t
}

func TestSelectFallsBackToLinear(t *testing.T) {
	table := []float64{0, 1, 2}

	for _, mode := range []Mode{-1, 5, 42} {
		got := Interpolate(table, 0, 0.25, 2, mode)
		if got != 0.25 {
			t.Fatalf("mode %d: got %v, want linear 0.25", mode, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   Mode
		want Mode
	}{
		{0, None},
		{1, None},
		{2, Linear},
		{3, Cosine},
		{4, Cubic},
		{7, Linear},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExactEndpoints(t *testing.T) {
	const size = 64
	table := testTable(size)

	for _, mode := range []Mode{Linear, Cosine, Cubic} {
		for i := range size {
			if got := Interpolate(table, i, 0, size, mode); got != table[i] {
				t.Fatalf("mode %d i=%d f=0: got %v, want %v", mode, i, got, table[i])
			}
			if got := Interpolate(table, i, 1, size, mode); got != table[i+1] {
				t.Fatalf("mode %d i=%d f=1: got %v, want %v", mode, i, got, table[i+1])
			}
		}
	}
}

func TestNoInterpTruncates(t *testing.T) {
	table := []float64{3, 7, 11}
	for _, mode := range []Mode{0, None} {
		if got := Interpolate(table, 1, 0.9, 2, mode); got != 7 {
			t.Fatalf("mode %d: got %v, want 7", mode, got)
		}
	}
}

func TestLinearMidpoint(t *testing.T) {
	if got := LinearInterp([]float64{2, 4}, 0, 0.25, 1); got != 2.5 {
		t.Fatalf("got %v, want 2.5", got)
	}
}

func TestCosineIsSymmetric(t *testing.T) {
	if got := CosineWeight(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("CosineWeight(0.5) = %v, want 0.5", got)
	}

	for _, f := range []float64{0.1, 0.2, 0.3, 0.45} {
		a := CosineWeight(f)
		b := CosineWeight(1 - f)
		if math.Abs(a+b-1) > 1e-9 {
			t.Fatalf("f=%v: w(f)+w(1-f) = %v, want 1", f, a+b)
		}
	}
}

func TestCosineWeightMonotonic(t *testing.T) {
	prev := -1.0
	for k := 0; k <= 1000; k++ {
		w := CosineWeight(float64(k) / 1000)
		if w < prev {
			t.Fatalf("weight decreased at k=%d: %v < %v", k, w, prev)
		}
		prev = w
	}
}

func TestCubicReproducesLinearRamp(t *testing.T) {
	table := []float64{0, 1, 2, 3, 4, 5}
	for _, f := range []float64{0.25, 0.5, 0.75} {
		got := CubicInterp(table, 2, f, 5)
		if math.Abs(got-(2+f)) > 1e-12 {
			t.Fatalf("f=%v: got %v, want %v", f, got, 2+f)
		}
	}
}

func TestCubicEdgesStayInBounds(t *testing.T) {
	const size = 8
	table := testTable(size)

	got := CubicInterp(table, 0, 0.5, size)
	if math.IsNaN(got) {
		t.Fatal("NaN at lower edge")
	}

	got = CubicInterp(table, size-1, 0.5, size)
	if math.IsNaN(got) {
		t.Fatal("NaN at upper edge")
	}
}

func TestSplit(t *testing.T) {
	i, f := Split(3.25)
	if i != 3 || f != 0.25 {
		t.Fatalf("Split(3.25) = %d, %v", i, f)
	}
}
