package main

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/engine"
	"github.com/cwbudde/algo-synth/dsp/patch"
)

func TestParseNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  []byte
		want noteEvent
		ok   bool
	}{
		{name: "note on", msg: []byte{0x90, 60, 100}, want: noteEvent{on: true, note: 60, velocity: 100}, ok: true},
		{name: "note on channel 5", msg: []byte{0x94, 61, 1}, want: noteEvent{on: true, note: 61, velocity: 1}, ok: true},
		{name: "zero velocity is off", msg: []byte{0x90, 60, 0}, want: noteEvent{note: 60}, ok: true},
		{name: "note off", msg: []byte{0x80, 62, 64}, want: noteEvent{note: 62}, ok: true},
		{name: "control change", msg: []byte{0xB0, 7, 100}},
		{name: "short", msg: []byte{0x90, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := parseNote(tt.msg)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseNote(%v) = %+v, %v; want %+v, %v", tt.msg, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestVoiceRetunesAtBlockBoundary(t *testing.T) {
	t.Parallel()

	const sr = 48000.0

	srv := engine.New(core.WithSampleRate(sr), core.WithBlockSize(8))
	p, err := patch.Build(srv, []byte(`{"nodes": [{"id": "ramp", "type": "phasor", "params": {"freq": 100}, "out": true}]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	v := newVoice(srv, p, "ramp")
	if err := v.check(); err != nil {
		t.Fatal(err)
	}

	v.handle([]byte{0x90, 69, 127})
	srv.Tick()

	out := srv.Output()
	if step := out[1] - out[0]; math.Abs(step-440/sr) > 1e-12 {
		t.Errorf("phase step = %g, want %g", step, 440/sr)
	}

	v.handle([]byte{0x80, 69, 0})
	srv.Tick()

	for i, x := range srv.Output() {
		if x != 0 {
			t.Fatalf("out[%d] = %g after note off, want 0", i, x)
		}
	}
}

func TestVoiceCheck(t *testing.T) {
	t.Parallel()

	srv := engine.New()
	p, err := patch.Build(srv, []byte(`{"nodes": [
		{"id": "n", "type": "noise"},
		{"id": "f", "type": "fm"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := newVoice(srv, p, "missing").check(); err == nil {
		t.Error("missing target accepted")
	}
	if err := newVoice(srv, p, "n").check(); err == nil {
		t.Error("noise target accepted")
	}
	if err := newVoice(srv, p, "f").check(); err != nil {
		t.Errorf("fm target rejected: %v", err)
	}
}

func TestServerReader(t *testing.T) {
	t.Parallel()

	srv := engine.New(core.WithBlockSize(4))
	p, err := patch.Build(srv, []byte(`{"nodes": [
		{"id": "a", "type": "sig", "params": {"value": 0.5}, "out": true},
		{"id": "b", "type": "sig", "params": {"value": 1.25}}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	r := newServerReader(srv)
	buf := make([]byte, 6*4)

	n, err := r.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}

	for i := range 6 {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])); got != 0.5 {
			t.Fatalf("sample %d = %g, want 0.5", i, got)
		}
	}

	b, _ := p.Unit("b")
	srv.Post(b.Out)

	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	// The post lands at the next block boundary, two samples in.
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[2*4:])); got != 1 {
		t.Errorf("mixed sample = %g, want clipped 1", got)
	}
}

func TestDemoPatchBuilds(t *testing.T) {
	t.Parallel()

	srv := engine.New()
	p, err := patch.Build(srv, []byte(demoPatch))
	if err != nil {
		t.Fatalf("demo patch: %v", err)
	}
	defer p.Close()

	if err := newVoice(srv, p, demoTarget).check(); err != nil {
		t.Error(err)
	}

	out := make([]float64, 4096)
	srv.Render(out)
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %v", i, v)
		}
	}
}
