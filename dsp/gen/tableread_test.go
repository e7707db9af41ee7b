package gen_test

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

// At 6400 Hz a 100-sample table read at 50 Hz advances exactly 50/64 of a
// sample per step, so the end is reached on sample 128.
func newTriggerReader(t *testing.T, loop bool) (*testutil.Host, *gen.TableRead, *gen.TableReadTrig) {
	t.Helper()
	h := testutil.NewHost(core.WithSampleRate(6400), core.WithBlockSize(64))
	table := mustTable(t)(wavetable.FromSamples(testutil.Ramp(1, 1, 100), 6400))

	r, err := gen.NewTableRead(h, table, port.Scalar(50))
	if err != nil {
		t.Fatal(err)
	}
	r.SetLoop(loop)
	return h, r, r.Trig()
}

func triggerIndices(trigs []float64) []int {
	var idx []int
	for i, v := range trigs {
		if v != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestTableReadTriggerOnWrap(t *testing.T) {
	h, r, trig := newTriggerReader(t, true)

	trigs := h.Render(trig, 3)
	got := triggerIndices(trigs)
	if len(got) != 1 || got[0] != 128 {
		t.Fatalf("triggers at %v, want [128]", got)
	}
	if r.Stopped() {
		t.Fatal("looping reader stopped")
	}
	if v := r.Block()[0]; v != 1 {
		t.Fatalf("first sample after wrap = %v, want table start 1", v)
	}
}

func TestTableReadTriggerClearedByStop(t *testing.T) {
	h, r, trig := newTriggerReader(t, true)

	if got := triggerIndices(h.Render(trig, 3)); len(got) != 1 {
		t.Fatalf("triggers at %v, want one before Stop", got)
	}

	r.Stop()
	if got := triggerIndices(h.Render(trig, 3)); len(got) != 0 {
		t.Fatalf("stopped reader kept triggering at %v", got)
	}
}

func TestTableReadOneShotStops(t *testing.T) {
	h, r, trig := newTriggerReader(t, false)

	h.Tick()
	h.Tick()
	if r.Stopped() {
		t.Fatal("stopped before the end of the table")
	}

	h.Tick()
	if !r.Stopped() {
		t.Fatal("reader did not stop at the end of the table")
	}
	if got := triggerIndices(trig.Block()); len(got) != 1 || got[0] != 0 {
		t.Fatalf("triggers at %v, want [0]", got)
	}
	for i, v := range r.Block() {
		if v != 0 {
			t.Fatalf("sample %d = %v after stop, want 0", i, v)
		}
	}

	h.Tick()
	if got := triggerIndices(trig.Block()); len(got) != 0 {
		t.Fatalf("stopped reader retriggered at %v", got)
	}

	r.Play()
	h.Tick()
	if r.Stopped() {
		t.Fatal("Play did not restart playback")
	}
	if v := r.Block()[0]; v != 1 {
		t.Fatalf("restart sample = %v, want 1", v)
	}
}

func TestTableReadKeepLast(t *testing.T) {
	h, r, _ := newTriggerReader(t, false)
	r.SetKeepLast(true)

	h.Render(r, 3)
	last := r.Block()[0]
	if last < 99 || last > 100 {
		t.Fatalf("held sample = %v, want the final table value", last)
	}
	for i, v := range r.Block() {
		if v != last {
			t.Fatalf("sample %d = %v, want held %v", i, v, last)
		}
	}
}

func TestTableReadReverse(t *testing.T) {
	h := testutil.NewHost(core.WithSampleRate(6400), core.WithBlockSize(64))
	table := mustTable(t)(wavetable.FromSamples(testutil.Ramp(1, 1, 100), 6400))

	r, err := gen.NewTableRead(h, table, port.Scalar(-50))
	if err != nil {
		t.Fatal(err)
	}
	r.SetLoop(true)

	out := h.Render(r, 1)
	if out[0] != 1 {
		t.Fatalf("out[0] = %v, want 1", out[0])
	}
	if out[1] <= out[0] {
		t.Fatalf("reverse playback did not wrap to the table end: %v", out[:2])
	}
}

func TestTableReadRejectsEmptyTable(t *testing.T) {
	if _, err := gen.NewTableRead(newHost(), nil, port.Scalar(1)); err == nil {
		t.Fatal("expected error for nil table")
	}
}
