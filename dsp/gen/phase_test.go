package gen

import (
	"math"
	"testing"
)

func TestWrapTable(t *testing.T) {
	tests := []struct {
		x, size, want float64
	}{
		{0, 512, 0},
		{511.5, 512, 511.5},
		{512, 512, 0},
		{513, 512, 1},
		{-1, 512, 511},
		{5 * 512.25, 512, 5 * 0.25},
		{-3 * 512, 512, 0},
		{math.Pi, math.Pi, 0},
	}
	for _, tt := range tests {
		got := wrapTable(tt.x, tt.size)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("wrapTable(%v, %v) = %v, want %v", tt.x, tt.size, got, tt.want)
		}
		if got < 0 || got >= tt.size {
			t.Fatalf("wrapTable(%v, %v) = %v outside [0,size)", tt.x, tt.size, got)
		}
	}
}

func TestWrapUnit(t *testing.T) {
	tests := []struct{ x, want float64 }{
		{0, 0},
		{0.25, 0.25},
		{1, 0},
		{1.75, 0.75},
		{-0.25, 0.75},
		{7.5, 0.5},
		{-7.5, 0.5},
		{-1e-18, 0},
	}
	for _, tt := range tests {
		if got := wrapUnit(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("wrapUnit(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSineTable(t *testing.T) {
	if sineTable[0] != 0 || sineTable[sineSize] != 0 {
		t.Fatal("sine table does not start and end at zero")
	}
	if sineTable[sineSize/4] != 1 {
		t.Fatalf("quarter value = %v, want 1", sineTable[sineSize/4])
	}
	if v := sineAt(64); math.Abs(v-math.Sin(math.Pi/4)) > 1e-15 {
		t.Fatalf("sineAt(64) = %v", v)
	}
}

func TestFadeCurves(t *testing.T) {
	for _, s := range []XfadeShape{XfadeLinear, XfadePower, XfadeSigmoid} {
		f := s.curve()
		if f[0] != 0 || f[fadeSize] != 1 {
			t.Fatalf("%v curve ends = %v, %v", s, f[0], f[fadeSize])
		}
		if fadeAt(f, -3) != 0 || fadeAt(f, 600) != 1 {
			t.Fatalf("%v curve does not clamp", s)
		}
	}
	if math.Abs(fadeAt(linearFade, 128.5)-128.5/512) > 1e-15 {
		t.Fatal("linear fade interpolation")
	}
	if XfadeShape(9).curve() != linearFade {
		t.Fatal("unknown shape does not fall back to linear")
	}
}

func TestGuardDivisor(t *testing.T) {
	for _, tt := range []struct{ d, want float64 }{
		{0, divGuard},
		{-1e-6, divGuard},
		{2, 2},
		{-2, -2},
	} {
		if got := guardDivisor(tt.d); got != tt.want {
			t.Fatalf("guardDivisor(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
