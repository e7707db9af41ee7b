package wavetable

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/window"
)

func TestNewRejectsInvalid(t *testing.T) {
	if _, err := New(0, 44100); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if _, err := New(8, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := FromSamples(nil, 44100); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestGuardSample(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Buffer, error)
		first bool
	}{
		{"harm", func() (*Buffer, error) { return Harm(64, 44100, 1, 0.5) }, true},
		{"saw", func() (*Buffer, error) { return Saw(64, 44100, 10) }, true},
		{"square", func() (*Buffer, error) { return Square(64, 44100, 10) }, true},
		{"hann", func() (*Buffer, error) { return Hann(64, 44100) }, false},
		{"lin", func() (*Buffer, error) { return Lin(64, 44100) }, false},
		{"cheby", func() (*Buffer, error) { return Cheby(64, 44100, 1, 0, 0.5) }, false},
		{"samples", func() (*Buffer, error) { return FromSamples([]float64{1, 2, 3}, 22050) }, false},
		{"loop", func() (*Buffer, error) { return FromLoop([]float64{1, 2, 3}, 22050) }, true},
		{"curve", func() (*Buffer, error) { return Curve(64, 44100, 0, 0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			data := b.Data()
			if len(data) != b.Size()+1 {
				t.Fatalf("len(data) = %d, want %d", len(data), b.Size()+1)
			}

			want := data[b.Size()-1]
			if tt.first {
				want = data[0]
			}
			if data[b.Size()] != want {
				t.Fatalf("guard = %v, want %v", data[b.Size()], want)
			}
			if b.Periodic() != tt.first {
				t.Fatalf("Periodic() = %v, want %v", b.Periodic(), tt.first)
			}
		})
	}
}

func TestHarmIsSine(t *testing.T) {
	b, err := Harm(512, 44100)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range b.Data()[:512] {
		want := math.Sin(2 * math.Pi * float64(i) / 512)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("data[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestSquareHasOnlyOddHarmonics(t *testing.T) {
	b, err := Square(1024, 44100, 6)
	if err != nil {
		t.Fatal(err)
	}

	// Half-wave symmetry: x(t+1/2) = -x(t).
	d := b.Data()
	for i := range 512 {
		if math.Abs(d[i]+d[i+512]) > 1e-12 {
			t.Fatalf("half-wave symmetry broken at %d: %v vs %v", i, d[i], d[i+512])
		}
	}
}

func TestLinSegments(t *testing.T) {
	b, err := Lin(9, 44100, Point{0, 0}, Point{4, 1}, Point{8, 0})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25, 0, 0}
	for i, v := range b.Data() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Fatalf("data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestSegmentsAnchorAndHold(t *testing.T) {
	b, err := Cos(8, 44100, Point{2, 1}, Point{4, 0})
	if err != nil {
		t.Fatal(err)
	}

	d := b.Data()
	if d[0] != 1 || d[1] != 1 {
		t.Fatalf("anchor not held: %v", d[:3])
	}
	for i := 4; i < len(d); i++ {
		if d[i] != 0 {
			t.Fatalf("data[%d] = %v, want held 0", i, d[i])
		}
	}
}

func TestSetPeriodicRewritesGuard(t *testing.T) {
	b, err := FromSamples([]float64{1, 2, 3, 4}, 44100)
	if err != nil {
		t.Fatal(err)
	}

	b.SetPeriodic(true)
	if g := b.Data()[4]; g != 1 || !b.Periodic() {
		t.Fatalf("periodic guard = %v, want first sample 1", g)
	}

	b.Set(0, 7)
	if g := b.Data()[4]; g != 7 {
		t.Fatalf("guard after Set(0) = %v, want 7", g)
	}

	b.SetPeriodic(false)
	if g := b.Data()[4]; g != 4 || b.Periodic() {
		t.Fatalf("one-shot guard = %v, want last sample 4", g)
	}
}

func TestCurve(t *testing.T) {
	t.Run("normal tension through two points is linear", func(t *testing.T) {
		curve, err := Curve(9, 44100, 0, 0, Point{0, 0}, Point{8, 1})
		if err != nil {
			t.Fatal(err)
		}
		line, err := Lin(9, 44100, Point{0, 0}, Point{8, 1})
		if err != nil {
			t.Fatal(err)
		}
		for i := range curve.Data() {
			if math.Abs(curve.Data()[i]-line.Data()[i]) > 1e-12 {
				t.Fatalf("data[%d] = %v, want %v", i, curve.Data()[i], line.Data()[i])
			}
		}
	})

	t.Run("full tension flattens the ends", func(t *testing.T) {
		b, err := Curve(9, 44100, 1, 0, Point{0, 0}, Point{8, 1})
		if err != nil {
			t.Fatal(err)
		}
		// smoothstep at mu = 0.25
		if got := b.Data()[2]; math.Abs(got-0.15625) > 1e-12 {
			t.Fatalf("data[2] = %v, want 0.15625", got)
		}
	})

	t.Run("passes through every point", func(t *testing.T) {
		pts := []Point{{0, 0}, {16, 0.5}, {32, 0.2}, {48, 0.5}, {63, 0}}
		b, err := Curve(64, 44100, 0.3, -0.4, pts...)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range pts {
			if got := b.Data()[p.Index]; math.Abs(got-p.Value) > 1e-12 {
				t.Fatalf("data[%d] = %v, want %v", p.Index, got, p.Value)
			}
		}
	})
}

func TestExpInverse(t *testing.T) {
	up, err := Exp(11, 44100, 2, true, Point{0, 0}, Point{10, 1})
	if err != nil {
		t.Fatal(err)
	}
	down, err := Exp(11, 44100, 2, true, Point{0, 1}, Point{10, 0})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i <= 10; i++ {
		if math.Abs(up.Data()[i]-down.Data()[10-i]) > 1e-12 {
			t.Fatalf("inverse falling segment does not mirror rising one at %d", i)
		}
	}
}

func TestChebyFirstOrderIsIdentity(t *testing.T) {
	b, err := Cheby(16, 44100, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range b.Data()[:16] {
		want := 2*float64(i)/16 - 1
		if v != want {
			t.Fatalf("data[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestWindowTable(t *testing.T) {
	b, err := Window(window.TypeBartlett, 5, 44100)
	if err != nil {
		t.Fatal(err)
	}
	if b.Data()[2] != 1 {
		t.Fatalf("peak = %v, want 1", b.Data()[2])
	}

	if _, err := Window(window.TypeHann, 0, 44100); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestSetKeepsGuard(t *testing.T) {
	p, _ := Harm(8, 44100)
	p.Set(0, 0.5)
	if p.Data()[8] != 0.5 {
		t.Fatalf("periodic guard = %v, want 0.5", p.Data()[8])
	}

	o, _ := New(8, 44100)
	o.Set(7, -0.25)
	if o.Data()[8] != -0.25 {
		t.Fatalf("one-shot guard = %v, want -0.25", o.Data()[8])
	}

	o.Set(8, 1)
	o.Set(-1, 1)
	if o.Data()[8] != -0.25 {
		t.Fatal("out-of-range Set modified the table")
	}
}

func TestNormalizeRateDuration(t *testing.T) {
	b, _ := FromSamples([]float64{0.5, -0.25, 0.1, 0}, 4)
	b.Normalize()

	if b.Data()[0] != 1 || b.Data()[1] != -0.5 {
		t.Fatalf("normalized = %v", b.Data())
	}
	if b.Rate() != 1 {
		t.Fatalf("Rate() = %v, want 1", b.Rate())
	}
	if b.Duration() != 1 {
		t.Fatalf("Duration() = %v, want 1", b.Duration())
	}
}
