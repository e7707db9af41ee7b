package gen

import "github.com/cwbudde/algo-synth/dsp/port"

// Phasor outputs a rising ramp in [0,1) at the given frequency.
type Phasor struct {
	base
	freq  port.Port
	phase port.Port

	pointerPos float64
}

// NewPhasor creates a ramp generator. phase offsets the ramp by a fraction of a cycle.
func NewPhasor(h Host, freq, phase port.Port, opts ...Option) *Phasor {
	p := &Phasor{freq: freq, phase: phase}
	p.setup(h, opts)
	p.setProcMode()
	p.register(p)

	return p
}

// SetFreq replaces the frequency port.
func (p *Phasor) SetFreq(v port.Port) {
	p.freq = v
	p.setProcMode()
}

// SetPhase replaces the phase port.
func (p *Phasor) SetPhase(v port.Port) {
	p.phase = v
	p.setProcMode()
}

// Reset restarts the ramp.
func (p *Phasor) Reset() { p.pointerPos = 0 }

func (p *Phasor) setProcMode() {
	switch port.Code(p.freq, p.phase) {
	case 0:
		p.proc = func() { phasorFill(p, p.freq.Const(), p.phase.Const()) }
	case 1:
		p.proc = func() { phasorFill(p, p.freq.Signal(), p.phase.Const()) }
	case 10:
		p.proc = func() { phasorFill(p, p.freq.Const(), p.phase.Signal()) }
	case 11:
		p.proc = func() { phasorFill(p, p.freq.Signal(), p.phase.Signal()) }
	}
}

func phasorFill[F, P port.Reader](p *Phasor, freq F, phase P) {
	scale := 1 / p.sr
	pos := p.pointerPos

	for i := range p.out {
		p.out[i] = wrapUnit(pos + phase.At(i))
		pos = wrapUnit(pos + freq.At(i)*scale)
	}

	p.pointerPos = pos
}
