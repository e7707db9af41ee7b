package gen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/port"
)

// LFOShape selects the LFO waveform.
type LFOShape int

const (
	LFOSawUp LFOShape = iota
	LFOSawDown
	LFOSquare
	LFOTriangle
	LFOPulse
	LFOBipolarPulse
	LFOSampleHold
	LFOModSine
)

// String implements fmt.Stringer.
func (s LFOShape) String() string {
	switch s {
	case LFOSawUp:
		return "saw-up"
	case LFOSawDown:
		return "saw-down"
	case LFOSquare:
		return "square"
	case LFOTriangle:
		return "triangle"
	case LFOPulse:
		return "pulse"
	case LFOBipolarPulse:
		return "bipolar-pulse"
	case LFOSampleHold:
		return "sample-hold"
	case LFOModSine:
		return "mod-sine"
	default:
		return fmt.Sprintf("LFOShape(%d)", int(s))
	}
}

// LFO is a low frequency oscillator with eight shapes. sharp in [0,1]
// morphs from the shape's fundamental sine (0) to the full shape (1).
// For sample-and-hold it sets how fast the output glides to each new value;
// for the modulated sine it is the self-modulation depth.
type LFO struct {
	base
	freq  port.Port
	sharp port.Port
	shape LFOShape

	pos    float64
	held   float64
	target float64
	rng    *rand.Rand
}

// NewLFO creates an LFO.
func NewLFO(h Host, freq, sharp port.Port, shape LFOShape, opts ...Option) (*LFO, error) {
	l := &LFO{freq: freq, sharp: sharp}
	if err := l.SetShape(shape); err != nil {
		return nil, err
	}

	s := l.setup(h, opts)
	l.rng = newRand(s.seed)
	l.target = l.rng.Float64()*2 - 1
	l.setProcMode()
	l.register(l)

	return l, nil
}

// SetFreq replaces the frequency port.
func (l *LFO) SetFreq(p port.Port) {
	l.freq = p
	l.setProcMode()
}

// SetSharp replaces the sharpness port.
func (l *LFO) SetSharp(p port.Port) {
	l.sharp = p
	l.setProcMode()
}

// SetShape selects the waveform.
func (l *LFO) SetShape(s LFOShape) error {
	if s < LFOSawUp || s > LFOModSine {
		return fmt.Errorf("lfo shape must be in [0,7]: %d", s)
	}
	l.shape = s
	return nil
}

// Shape returns the waveform.
func (l *LFO) Shape() LFOShape { return l.shape }

func (l *LFO) setProcMode() {
	switch port.Code(l.freq, l.sharp) {
	case 0:
		l.proc = func() { lfoFill(l, l.freq.Const(), l.sharp.Const()) }
	case 1:
		l.proc = func() { lfoFill(l, l.freq.Signal(), l.sharp.Const()) }
	case 10:
		l.proc = func() { lfoFill(l, l.freq.Const(), l.sharp.Signal()) }
	case 11:
		l.proc = func() { lfoFill(l, l.freq.Signal(), l.sharp.Signal()) }
	}
}

func lfoFill[F, S port.Reader](l *LFO, freq F, sharp S) {
	pos := l.pos

	for i := range l.out {
		f := freq.At(i)
		sh := core.Clamp(sharp.At(i), 0, 1)

		if l.shape == LFOSampleHold {
			l.out[i] = l.sampleHold(f, sh)
		} else {
			l.out[i] = lfoShape(l.shape, pos, sh)
		}

		pos += f / l.sr
		if pos >= 1 || pos < 0 {
			pos = wrapUnit(pos)
			l.target = l.rng.Float64()*2 - 1
		}
	}

	l.pos = pos
}

// sampleHold glides toward the value drawn at the last cycle start. A sharp
// of 1 jumps immediately; lower values spread the glide over up to half a
// cycle.
func (l *LFO) sampleHold(freq, sharp float64) float64 {
	k := 1.0
	if sharp < 1 {
		k = math.Min(math.Abs(freq)/l.sr/((1-sharp)*0.5), 1)
	}
	l.held += (l.target - l.held) * k
	return l.held
}

func lfoShape(shape LFOShape, pos, sharp float64) float64 {
	w := 2 * math.Pi * pos

	var full, fund float64
	switch shape {
	case LFOSawUp:
		full, fund = 2*pos-1, -math.Sin(w)
	case LFOSawDown:
		full, fund = 1-2*pos, math.Sin(w)
	case LFOSquare:
		full, fund = 1, math.Sin(w)
		if pos >= 0.5 {
			full = -1
		}
	case LFOTriangle:
		full, fund = 4*pos-1, -math.Cos(w)
		if pos >= 0.5 {
			full = 3 - 4*pos
		}
	case LFOPulse:
		fund = 0.5 + 0.5*math.Sin(w)
		if pos < 0.5 {
			full = 1
		}
	case LFOBipolarPulse:
		fund = math.Sin(w)
		switch {
		case pos < 0.25:
			full = 1
		case pos >= 0.5 && pos < 0.75:
			full = -1
		}
	case LFOModSine:
		return math.Sin(w + sharp*math.Sin(2*w))
	}

	return fund*(1-sharp) + full*sharp
}
