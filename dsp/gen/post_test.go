package gen_test

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func TestPostProcessingModes(t *testing.T) {
	tests := []struct {
		name  string
		apply func(u *gen.Sig, mod port.Port)
		want  float64
	}{
		{"identity", func(*gen.Sig, port.Port) {}, 2},
		{"scalar mul", func(u *gen.Sig, _ port.Port) { u.SetMul(port.Scalar(3)) }, 6},
		{"scalar add", func(u *gen.Sig, _ port.Port) { u.SetAdd(port.Scalar(0.5)) }, 2.5},
		{"scalar mul add", func(u *gen.Sig, _ port.Port) {
			u.SetMul(port.Scalar(3))
			u.SetAdd(port.Scalar(1))
		}, 7},
		{"signal mul", func(u *gen.Sig, m port.Port) { u.SetMul(m) }, 8},
		{"signal add", func(u *gen.Sig, m port.Port) { u.SetAdd(m) }, 6},
		{"signal mul add", func(u *gen.Sig, m port.Port) {
			u.SetMul(m)
			u.SetAdd(m)
		}, 12},
		{"scalar sub", func(u *gen.Sig, _ port.Port) { u.SetSub(port.Scalar(0.5)) }, 1.5},
		{"signal sub", func(u *gen.Sig, m port.Port) { u.SetSub(m) }, -2},
		{"scalar div", func(u *gen.Sig, _ port.Port) { u.SetDiv(port.Scalar(4)) }, 0.5},
		{"signal div", func(u *gen.Sig, m port.Port) { u.SetDiv(m) }, 0.5},
		{"signal div sub", func(u *gen.Sig, m port.Port) {
			u.SetDiv(m)
			u.SetSub(m)
		}, -3.5},
		{"signal div add", func(u *gen.Sig, m port.Port) {
			u.SetDiv(m)
			u.SetAdd(m)
		}, 4.5},
		{"scalar mul signal sub", func(u *gen.Sig, m port.Port) {
			u.SetMul(port.Scalar(3))
			u.SetSub(m)
		}, 2},
		{"signal mul signal sub", func(u *gen.Sig, m port.Port) {
			u.SetMul(m)
			u.SetSub(m)
		}, 4},
		{"zero scalar div ignored", func(u *gen.Sig, _ port.Port) {
			u.SetMul(port.Scalar(3))
			u.SetDiv(port.Scalar(0))
		}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHost()
			mod := gen.NewSig(h, port.Scalar(4))
			u := gen.NewSig(h, port.Scalar(2))
			tt.apply(u, port.From(mod))

			h.Tick()
			testutil.RequireSliceEqual(t, u.Block(), testutil.DC(tt.want, testBlock))
		})
	}
}

func TestSetSubStoresNegation(t *testing.T) {
	u := gen.NewSig(newHost(), port.Scalar(1))
	u.SetSub(port.Scalar(0.25))
	if got := u.Add().Value(); got != -0.25 {
		t.Fatalf("Add() = %v, want -0.25", got)
	}

	u.SetDiv(port.Scalar(8))
	if got := u.Mul().Value(); got != 0.125 {
		t.Fatalf("Mul() = %v, want 0.125", got)
	}
}

func TestSignalDivisorGuard(t *testing.T) {
	h := newHost()
	zero := gen.NewSig(h, port.Scalar(0))
	u := gen.NewSig(h, port.Scalar(1))
	u.SetDiv(port.From(zero))

	guard := 0.00001
	want := 1 / guard

	h.Tick()
	for i, v := range u.Block() {
		if v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestStopSilencesAndKeepsSchedule(t *testing.T) {
	h := newHost()
	u := gen.NewSig(h, port.Scalar(1), gen.WithAdd(port.Scalar(1)))

	u.Stop()
	h.Tick()
	if u.IsActive() || u.IsOutput() {
		t.Fatal("stopped unit still active")
	}
	testutil.RequireSliceEqual(t, u.Block(), testutil.DC(0, testBlock))
	if len(h.Units()) != 1 {
		t.Fatal("Stop removed the unit from the schedule")
	}

	u.Out()
	h.Tick()
	if !u.IsOutput() {
		t.Fatal("Out did not route the unit")
	}
	testutil.RequireSliceEqual(t, u.Block(), testutil.DC(2, testBlock))
}
