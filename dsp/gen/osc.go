package gen

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// tableReader holds the table and interpolation kernel shared by the
// table-based units.
type tableReader struct {
	table  wavetable.Table
	imode  interp.Mode
	interp interp.Func
}

func (r *tableReader) setTable(t wavetable.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	r.table = t
	return nil
}

// SetInterp selects the interpolation mode. Invalid modes select linear.
func (r *tableReader) SetInterp(mode interp.Mode) {
	r.imode = interp.Normalize(mode)
	r.interp = interp.Select(r.imode)
}

// Interp returns the current interpolation mode.
func (r *tableReader) Interp() interp.Mode { return r.imode }

// Table returns the table being read.
func (r *tableReader) Table() wavetable.Table { return r.table }

// Osc is a wavetable oscillator with a phase offset.
type Osc struct {
	base
	tableReader
	freq  port.Port
	phase port.Port

	pointerPos float64
}

// NewOsc creates a table oscillator. phase is a normalised offset in [0,1].
func NewOsc(h Host, table wavetable.Table, freq, phase port.Port, opts ...Option) (*Osc, error) {
	o := &Osc{freq: freq, phase: phase}
	if err := o.setTable(table); err != nil {
		return nil, err
	}

	s := o.setup(h, opts)
	o.SetInterp(s.interp)
	o.setProcMode()
	o.register(o)

	return o, nil
}

// SetTable replaces the table. A nil or empty table is rejected and the
// previous table stays in use.
func (o *Osc) SetTable(t wavetable.Table) error { return o.setTable(t) }

// SetFreq replaces the frequency port.
func (o *Osc) SetFreq(p port.Port) {
	o.freq = p
	o.setProcMode()
}

// SetPhase replaces the phase port.
func (o *Osc) SetPhase(p port.Port) {
	o.phase = p
	o.setProcMode()
}

// Reset moves the oscillator back to the start of the table.
func (o *Osc) Reset() { o.pointerPos = 0 }

func (o *Osc) setProcMode() {
	switch port.Code(o.freq, o.phase) {
	case 0:
		o.proc = func() { oscFill(o, o.freq.Const(), o.phase.Const()) }
	case 1:
		o.proc = func() { oscFill(o, o.freq.Signal(), o.phase.Const()) }
	case 10:
		o.proc = func() { oscFill(o, o.freq.Const(), o.phase.Signal()) }
	case 11:
		o.proc = func() { oscFill(o, o.freq.Signal(), o.phase.Signal()) }
	}
}

func oscFill[F, P port.Reader](o *Osc, freq F, phase P) {
	data := o.table.Data()
	size := o.table.Size()
	fsize := float64(size)
	scale := fsize / o.sr
	pos := o.pointerPos

	for i := range o.out {
		pos = wrapTable(pos, fsize)
		ip, fp := interp.Split(wrapTable(pos+phase.At(i)*fsize, fsize))
		o.out[i] = o.interp(data, ip, fp, size)
		pos += freq.At(i) * scale
	}

	o.pointerPos = pos
}

// OscLoop is a table oscillator with output-to-phase feedback.
type OscLoop struct {
	base
	tableReader
	freq     port.Port
	feedback port.Port

	pointerPos float64
	last       float64
}

// NewOscLoop creates a self-modulating table oscillator. feedback is
// clamped to [0,1] and scaled by the table length.
func NewOscLoop(h Host, table wavetable.Table, freq, feedback port.Port, opts ...Option) (*OscLoop, error) {
	o := &OscLoop{freq: freq, feedback: feedback}
	if err := o.setTable(table); err != nil {
		return nil, err
	}

	s := o.setup(h, opts)
	o.SetInterp(s.interp)
	o.setProcMode()
	o.register(o)

	return o, nil
}

// SetTable replaces the table.
func (o *OscLoop) SetTable(t wavetable.Table) error { return o.setTable(t) }

// SetFreq replaces the frequency port.
func (o *OscLoop) SetFreq(p port.Port) {
	o.freq = p
	o.setProcMode()
}

// SetFeedback replaces the feedback port.
func (o *OscLoop) SetFeedback(p port.Port) {
	o.feedback = p
	o.setProcMode()
}

func (o *OscLoop) setProcMode() {
	switch port.Code(o.freq, o.feedback) {
	case 0:
		o.proc = func() { oscLoopFill(o, o.freq.Const(), o.feedback.Const()) }
	case 1:
		o.proc = func() { oscLoopFill(o, o.freq.Signal(), o.feedback.Const()) }
	case 10:
		o.proc = func() { oscLoopFill(o, o.freq.Const(), o.feedback.Signal()) }
	case 11:
		o.proc = func() { oscLoopFill(o, o.freq.Signal(), o.feedback.Signal()) }
	}
}

func oscLoopFill[F, B port.Reader](o *OscLoop, freq F, feedback B) {
	data := o.table.Data()
	size := o.table.Size()
	fsize := float64(size)
	scale := fsize / o.sr
	pos := o.pointerPos
	last := o.last

	for i := range o.out {
		feed := core.Clamp(feedback.At(i), 0, 1) * fsize
		pos = wrapTable(pos, fsize)
		ip, fp := interp.Split(wrapTable(pos+last*feed, fsize))
		last = o.interp(data, ip, fp, size)
		o.out[i] = last
		pos += freq.At(i) * scale
	}

	o.pointerPos = pos
	o.last = last
}
