package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func newTestServer() *Server {
	return New(core.WithSampleRate(48000), core.WithBlockSize(8))
}

func TestServerMixesOutputUnits(t *testing.T) {
	s := newTestServer()
	a := gen.NewSig(s, port.Scalar(0.25))
	b := gen.NewSig(s, port.Scalar(0.5))
	_ = gen.NewSig(s, port.Scalar(10))

	a.Out()
	b.Out()
	s.Tick()

	testutil.RequireSliceEqual(t, s.Output(), testutil.DC(0.75, 8))
	if s.Ticks() != 1 {
		t.Fatalf("ticks = %d, want 1", s.Ticks())
	}

	s.SetGain(2)
	s.Tick()
	testutil.RequireSliceEqual(t, s.Output(), testutil.DC(1.5, 8))
}

func TestServerRemove(t *testing.T) {
	s := newTestServer()
	a := gen.NewSig(s, port.Scalar(1))
	b := gen.NewSig(s, port.Scalar(2))

	if got := len(s.Units()); got != 2 {
		t.Fatalf("units = %d, want 2", got)
	}

	a.Close()
	units := s.Units()
	if len(units) != 1 || units[0] != gen.Unit(b) {
		t.Fatalf("units after Close = %v", units)
	}

	if err := s.Remove(a); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("Remove twice err = %v, want ErrNotRegistered", err)
	}

	s.Register(b)
	if got := len(s.Units()); got != 1 {
		t.Fatalf("double Register scheduled %d units", got)
	}
}

func TestServerPostRunsBeforeBlock(t *testing.T) {
	s := newTestServer()
	v := gen.NewSig(s, port.Scalar(1))
	v.Out()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func() { v.SetAdd(port.Scalar(float64(i + 1))) })
		}()
	}
	wg.Wait()
	s.Post(func() { v.SetMul(port.Scalar(0)) })
	s.Post(nil)

	s.Tick()
	add := v.Add().Value()
	if add < 1 || add > 4 {
		t.Fatalf("add = %v, want one of the posted values", add)
	}
	testutil.RequireSliceEqual(t, s.Output(), testutil.DC(add, 8))
}

func TestServerRenderSpansBlocks(t *testing.T) {
	s := newTestServer()
	p := gen.NewPhasor(s, port.Scalar(480), port.Scalar(0))
	p.Out()

	dst := make([]float64, 5)
	s.Render(dst)
	s.Render(dst[:0])
	rest := make([]float64, 15)
	s.Render(rest)

	got := append(dst, rest...)
	want := testutil.Ramp(0, 0.01, 20)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
	if s.Ticks() != 3 {
		t.Fatalf("ticks = %d, want 3", s.Ticks())
	}
}

func TestServerMixesFinalBlockOfStoppedLooper(t *testing.T) {
	s := newTestServer()
	table, err := testTable(10)
	if err != nil {
		t.Fatal(err)
	}
	l, err := gen.NewLooper(s, table, port.Scalar(1), port.Scalar(0), port.Scalar(1), port.Scalar(0))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetMode(gen.LoopOnce); err != nil {
		t.Fatal(err)
	}
	l.Out()

	s.Tick()
	s.Tick()
	if l.IsActive() {
		t.Fatal("looper still active after its table")
	}
	if s.Output()[0] == 0 {
		t.Fatal("final looper block was not mixed")
	}
}
