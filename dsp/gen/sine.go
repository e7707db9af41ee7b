package gen

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/port"
)

// Sine is a sine oscillator reading the shared 512-point sine table.
type Sine struct {
	base
	freq  port.Port
	phase port.Port

	pointerPos float64
}

// NewSine creates a sine oscillator. phase is a normalised offset in [0,1].
func NewSine(h Host, freq, phase port.Port, opts ...Option) *Sine {
	s := &Sine{freq: freq, phase: phase}
	s.setup(h, opts)
	s.setProcMode()
	s.register(s)

	return s
}

// SetFreq replaces the frequency port.
func (s *Sine) SetFreq(p port.Port) {
	s.freq = p
	s.setProcMode()
}

// SetPhase replaces the phase port.
func (s *Sine) SetPhase(p port.Port) {
	s.phase = p
	s.setProcMode()
}

// Reset moves the oscillator back to the start of its cycle.
func (s *Sine) Reset() { s.pointerPos = 0 }

func (s *Sine) setProcMode() {
	switch port.Code(s.freq, s.phase) {
	case 0:
		s.proc = func() { sineFill(s, s.freq.Const(), s.phase.Const()) }
	case 1:
		s.proc = func() { sineFill(s, s.freq.Signal(), s.phase.Const()) }
	case 10:
		s.proc = func() { sineFill(s, s.freq.Const(), s.phase.Signal()) }
	case 11:
		s.proc = func() { sineFill(s, s.freq.Signal(), s.phase.Signal()) }
	}
}

func sineFill[F, P port.Reader](s *Sine, freq F, phase P) {
	scale := sineSize / s.sr
	pos := s.pointerPos

	for i := range s.out {
		pos = wrapTable(pos, sineSize)
		s.out[i] = sineAt(wrapTable(pos+phase.At(i)*sineSize, sineSize))
		pos += freq.At(i) * scale
	}

	s.pointerPos = pos
}

// SineLoop is a sine oscillator whose previous output sample is fed back
// into its read position.
type SineLoop struct {
	base
	freq     port.Port
	feedback port.Port

	pointerPos float64
	last       float64
}

// NewSineLoop creates a self-modulating sine. feedback is clamped to [0,1].
func NewSineLoop(h Host, freq, feedback port.Port, opts ...Option) *SineLoop {
	s := &SineLoop{freq: freq, feedback: feedback}
	s.setup(h, opts)
	s.setProcMode()
	s.register(s)

	return s
}

// SetFreq replaces the frequency port.
func (s *SineLoop) SetFreq(p port.Port) {
	s.freq = p
	s.setProcMode()
}

// SetFeedback replaces the feedback port.
func (s *SineLoop) SetFeedback(p port.Port) {
	s.feedback = p
	s.setProcMode()
}

func (s *SineLoop) setProcMode() {
	switch port.Code(s.freq, s.feedback) {
	case 0:
		s.proc = func() { sineLoopFill(s, s.freq.Const(), s.feedback.Const()) }
	case 1:
		s.proc = func() { sineLoopFill(s, s.freq.Signal(), s.feedback.Const()) }
	case 10:
		s.proc = func() { sineLoopFill(s, s.freq.Const(), s.feedback.Signal()) }
	case 11:
		s.proc = func() { sineLoopFill(s, s.freq.Signal(), s.feedback.Signal()) }
	}
}

func sineLoopFill[F, B port.Reader](s *SineLoop, freq F, feedback B) {
	scale := sineSize / s.sr
	pos := s.pointerPos
	last := s.last

	for i := range s.out {
		feed := core.Clamp(feedback.At(i), 0, 1) * sineSize
		pos = wrapTable(pos, sineSize)
		last = sineAt(wrapTable(pos+last*feed, sineSize))
		s.out[i] = last
		pos += freq.At(i) * scale
	}

	s.pointerPos = pos
	s.last = last
}
