package gen

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// Pulsar plays an enveloped waveform during the first frac of each period
// and silence for the rest.
type Pulsar struct {
	base
	tableReader
	env   wavetable.Table
	freq  port.Port
	frac  port.Port
	phase port.Port

	pointerPos float64
}

// NewPulsar creates a pulsar generator. frac is the active fraction of the
// period, clamped to [0,1].
func NewPulsar(h Host, table, env wavetable.Table, freq, frac, phase port.Port, opts ...Option) (*Pulsar, error) {
	p := &Pulsar{freq: freq, frac: frac, phase: phase}
	if err := p.setTable(table); err != nil {
		return nil, err
	}
	if err := p.SetEnv(env); err != nil {
		return nil, err
	}

	s := p.setup(h, opts)
	p.SetInterp(s.interp)
	p.setProcMode()
	p.register(p)

	return p, nil
}

// SetTable replaces the waveform table.
func (p *Pulsar) SetTable(t wavetable.Table) error { return p.setTable(t) }

// SetEnv replaces the envelope table.
func (p *Pulsar) SetEnv(t wavetable.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	p.env = t
	return nil
}

// SetFreq replaces the frequency port.
func (p *Pulsar) SetFreq(v port.Port) {
	p.freq = v
	p.setProcMode()
}

// SetFrac replaces the active-fraction port.
func (p *Pulsar) SetFrac(v port.Port) {
	p.frac = v
	p.setProcMode()
}

// SetPhase replaces the phase port.
func (p *Pulsar) SetPhase(v port.Port) {
	p.phase = v
	p.setProcMode()
}

//nolint:cyclop
func (p *Pulsar) setProcMode() {
	switch port.Code(p.freq, p.frac, p.phase) {
	case 0:
		p.proc = func() { pulsarFill(p, p.freq.Const(), p.frac.Const(), p.phase.Const()) }
	case 1:
		p.proc = func() { pulsarFill(p, p.freq.Signal(), p.frac.Const(), p.phase.Const()) }
	case 10:
		p.proc = func() { pulsarFill(p, p.freq.Const(), p.frac.Signal(), p.phase.Const()) }
	case 11:
		p.proc = func() { pulsarFill(p, p.freq.Signal(), p.frac.Signal(), p.phase.Const()) }
	case 100:
		p.proc = func() { pulsarFill(p, p.freq.Const(), p.frac.Const(), p.phase.Signal()) }
	case 101:
		p.proc = func() { pulsarFill(p, p.freq.Signal(), p.frac.Const(), p.phase.Signal()) }
	case 110:
		p.proc = func() { pulsarFill(p, p.freq.Const(), p.frac.Signal(), p.phase.Signal()) }
	case 111:
		p.proc = func() { pulsarFill(p, p.freq.Signal(), p.frac.Signal(), p.phase.Signal()) }
	}
}

func pulsarFill[F, R, P port.Reader](p *Pulsar, freq F, frac R, phase P) {
	data := p.table.Data()
	size := p.table.Size()
	fsize := float64(size)
	env := p.env.Data()
	esize := float64(p.env.Size())
	scale := 1 / p.sr
	pos := p.pointerPos

	for i := range p.out {
		ph := wrapUnit(pos + phase.At(i))
		fr := core.Clamp(frac.At(i), 0, 1)

		if ph < fr {
			scl := ph / fr
			ip, fp := interp.Split(scl * fsize)
			ie, fe := interp.Split(scl * esize)
			p.out[i] = p.interp(data, ip, fp, size) * (env[ie]*(1-fe) + env[ie+1]*fe)
		} else {
			p.out[i] = 0
		}

		pos = wrapUnit(pos + freq.At(i)*scale)
	}

	p.pointerPos = pos
}
