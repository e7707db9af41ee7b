package gen

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// MinCrossfadeSamples is the shortest crossfade the Looper will use.
const MinCrossfadeSamples = 5

// Looper parameter limits.
const (
	minLoopDur = 0.001
	maxXfade   = 50.0
)

// LoopMode selects how the Looper traverses its loop.
type LoopMode int

const (
	LoopOnce LoopMode = iota
	LoopForward
	LoopBackward
	LoopBackAndForth
)

// String implements fmt.Stringer.
func (m LoopMode) String() string {
	switch m {
	case LoopOnce:
		return "once"
	case LoopForward:
		return "forward"
	case LoopBackward:
		return "backward"
	case LoopBackAndForth:
		return "back-and-forth"
	default:
		return fmt.Sprintf("LoopMode(%d)", int(m))
	}
}

// loopVoice is one of the two alternating read heads.
type loopVoice struct {
	pos     float64
	active  bool
	start   int
	end     int
	xfade   int
	scaling float64
	minFade int
	maxFade int
}

// Looper plays a region of a table in a loop, crossfading between two read
// heads at every loop boundary.
//
// start and dur are in seconds of table time, xfade is a percentage of the
// loop length in [0,50]. They are sampled only when a voice starts a new
// iteration. pitch is a playback speed ratio; negative values count as 0.
type Looper struct {
	base
	tableReader
	pitch port.Port
	start port.Port
	dur   port.Port
	xfade port.Port

	mode          LoopMode
	nextMode      LoopMode
	shape         XfadeShape
	fader         *[fadeSize + 1]float64
	startFromLoop bool
	autoSmooth    bool
	voices        [2]loopVoice
	finished      bool

	lastPitch float64
	y1, y2    float64
	c1, c2    float64
}

// NewLooper creates a forward looping player with a linear crossfade.
func NewLooper(h Host, table wavetable.Table, pitch, start, dur, xfade port.Port, opts ...Option) (*Looper, error) {
	l := &Looper{
		pitch:     pitch,
		start:     start,
		dur:       dur,
		xfade:     xfade,
		mode:      LoopForward,
		nextMode:  LoopForward,
		fader:     linearFade,
		lastPitch: -1,
	}
	if err := l.setTable(table); err != nil {
		return nil, err
	}

	s := l.setup(h, opts)
	l.SetInterp(s.interp)
	l.setProcMode()
	l.register(l)

	return l, nil
}

// SetTable replaces the table.
func (l *Looper) SetTable(t wavetable.Table) error { return l.setTable(t) }

// SetPitch replaces the speed port.
func (l *Looper) SetPitch(p port.Port) {
	l.pitch = p
	l.setProcMode()
}

// SetStart replaces the loop start port.
func (l *Looper) SetStart(p port.Port) { l.start = p }

// SetDur replaces the loop duration port.
func (l *Looper) SetDur(p port.Port) { l.dur = p }

// SetXfade replaces the crossfade percentage port.
func (l *Looper) SetXfade(p port.Port) { l.xfade = p }

// SetMode selects the loop mode. The change takes effect at the next loop
// iteration, which restarts both voices.
func (l *Looper) SetMode(m LoopMode) error {
	if m < LoopOnce || m > LoopBackAndForth {
		return fmt.Errorf("loop mode must be in [0,3]: %d", m)
	}
	l.nextMode = m
	return nil
}

// Mode returns the loop mode in effect.
func (l *Looper) Mode() LoopMode { return l.mode }

// SetXfadeShape selects the crossfade curve for subsequent iterations.
// Unknown shapes use the linear curve.
func (l *Looper) SetXfadeShape(s XfadeShape) { l.shape = s }

// SetStartFromLoop makes the first iteration start at the loop start instead
// of the beginning of the table.
func (l *Looper) SetStartFromLoop(on bool) { l.startFromLoop = on }

// SetAutoSmooth enables a lowpass that tracks the pitch when playing slower
// than the recorded speed.
func (l *Looper) SetAutoSmooth(on bool) { l.autoSmooth = on }

// Play restarts playback from the first iteration.
func (l *Looper) Play() {
	l.rewind()
	l.base.Play()
}

// Out restarts playback and routes the unit to the host output.
func (l *Looper) Out() {
	l.rewind()
	l.base.Out()
}

func (l *Looper) rewind() {
	l.voices[0].active = false
	l.voices[1].active = false
	l.finished = false
}

// Compute fills the block. A one-shot playback that reaches its end keeps
// the block it finished in and then deactivates.
func (l *Looper) Compute() {
	l.base.Compute()
	if l.finished {
		l.finished = false
		l.active = false
		l.output = false
	}
}

func (l *Looper) setProcMode() {
	switch port.Code(l.pitch) {
	case 0:
		l.proc = func() { looperFill(l, l.pitch.Const()) }
	case 1:
		l.proc = func() { looperFill(l, l.pitch.Signal()) }
	}
}

// reset starts voice which on a new iteration using the parameters at
// sample i. first marks the very first iteration after a (re)start.
//
//nolint:funlen
func (l *Looper) reset(i, which int, first bool) {
	last := l.table.Size() - 1
	tableSr := l.table.SampleRate()

	start := core.Clamp(l.start.At(i), 0, float64(last)/tableSr)
	dur := math.Max(l.dur.At(i), minLoopDur)
	xfade := core.Clamp(l.xfade.At(i), 0, maxXfade)

	l.fader = l.shape.curve()

	if l.nextMode != l.mode {
		l.mode = l.nextMode
		l.voices[0].active = false
		l.voices[1].active = false
		which = 0
	}

	v := &l.voices[which]
	fromTop := first && !l.startFromLoop
	forward := true

	switch l.mode {
	case LoopOnce:
		v.start, v.end = 0, last
		v.xfade = MinCrossfadeSamples
	case LoopForward:
		v.start, v.end = int(start*tableSr), int((start+dur)*tableSr)
	case LoopBackward:
		v.start, v.end = int(start*tableSr), int((start-dur)*tableSr)
		forward = false
	case LoopBackAndForth:
		if which == 0 {
			v.start, v.end = int(start*tableSr), int((start+dur)*tableSr)
		} else {
			v.start, v.end = int((start+dur)*tableSr), int(start*tableSr)
			forward = false
			fromTop = false
		}
	}

	if l.mode != LoopOnce {
		span := v.end - v.start
		if !forward {
			span = -span
		}
		v.xfade = max(int(float64(span)*xfade*0.01), MinCrossfadeSamples)
	}
	v.scaling = 1 / float64(v.xfade) * fadeSize

	switch {
	case forward && fromTop:
		v.start = 0
		v.minFade = v.xfade
		v.maxFade = v.end - v.xfade
	case forward:
		v.minFade = v.start + v.xfade
		v.maxFade = v.end - v.xfade
	case fromTop:
		v.start = last
		v.minFade = last - v.xfade
		v.maxFade = v.end + v.xfade
	default:
		v.minFade = v.start - v.xfade
		v.maxFade = v.end + v.xfade
	}
	v.pos = float64(v.start)
	v.active = true
}

// readForward returns the faded sample of a voice moving up the table.
func (l *Looper) readForward(v *loopVoice, data []float64, size int) float64 {
	if v.pos >= float64(size) || v.pos < 0 {
		return 0
	}

	amp := 1.0
	switch {
	case v.pos < float64(v.minFade):
		amp = fadeAt(l.fader, (v.pos-float64(v.start))*v.scaling)
	case v.pos > float64(v.maxFade):
		amp = fadeAt(l.fader, (float64(v.end)-v.pos)*v.scaling)
	}

	ip, fp := interp.Split(v.pos)
	return l.interp(data, ip, fp, size) * amp
}

// readBackward returns the faded sample of a voice moving down the table.
func (l *Looper) readBackward(v *loopVoice, data []float64, size int) float64 {
	if v.pos >= float64(size) || v.pos < 0 {
		return 0
	}

	amp := 1.0
	switch {
	case v.pos > float64(v.minFade):
		amp = fadeAt(l.fader, (float64(v.start)-v.pos)*v.scaling)
	case v.pos < float64(v.maxFade):
		amp = fadeAt(l.fader, (v.pos-float64(v.end))*v.scaling)
	}

	ip, fp := interp.Split(v.pos)
	return l.interp(data, ip, fp, size) * amp
}

// advanceForward moves voice j up by pit and handles its loop boundary.
func (l *Looper) advanceForward(i, j int, pit float64) {
	v := &l.voices[j]
	v.pos += pit
	switch {
	case v.pos < 0:
		v.pos = 0
	case v.pos > float64(v.maxFade) && !l.voices[1-j].active:
		l.reset(i, 1-j, false)
	case v.pos >= float64(v.end):
		v.active = false
	}
}

// advanceBackward moves voice j down by pit and handles its loop boundary.
func (l *Looper) advanceBackward(i, j int, pit float64, size int) {
	v := &l.voices[j]
	v.pos -= pit
	switch {
	case v.pos >= float64(size):
		v.pos = float64(size - 1)
	case v.pos < float64(v.maxFade) && !l.voices[1-j].active:
		l.reset(i, 1-j, false)
	case v.pos <= float64(v.end):
		v.active = false
	}
}

//nolint:cyclop,funlen
func looperFill[P port.Reader](l *Looper, pitch P) {
	data := l.table.Data()
	size := l.table.Size()
	tableSr := l.table.SampleRate()
	ratio := tableSr / l.sr

	if !l.voices[0].active && !l.voices[1].active {
		l.reset(0, 0, true)
	}

	for i := range l.out {
		pit := math.Max(pitch.At(i), 0) * ratio
		l.out[i] = 0

		switch l.mode {
		case LoopOnce:
			v := &l.voices[0]
			if !v.active {
				continue
			}
			l.out[i] += l.readForward(v, data, size)
			v.pos += pit
			if v.pos < 0 {
				v.pos = 0
			} else if v.pos >= float64(v.end) {
				v.active = false
				l.finished = true
			}
		case LoopForward:
			for j := range l.voices {
				if l.voices[j].active {
					l.out[i] += l.readForward(&l.voices[j], data, size)
					l.advanceForward(i, j, pit)
				}
			}
		case LoopBackward:
			for j := range l.voices {
				if l.voices[j].active {
					l.out[i] += l.readBackward(&l.voices[j], data, size)
					l.advanceBackward(i, j, pit, size)
				}
			}
		case LoopBackAndForth:
			if l.voices[0].active {
				l.out[i] += l.readForward(&l.voices[0], data, size)
				l.advanceForward(i, 0, pit)
			}
			if l.voices[1].active {
				l.out[i] += l.readBackward(&l.voices[1], data, size)
				l.advanceBackward(i, 1, pit, size)
			}
		}
	}

	l.smooth(math.Max(pitch.At(0), 0), tableSr)
}

// smooth runs the output through a two-pole lowpass tracking 45% of the
// playback bandwidth while the speed is below 1. Coefficients are only
// recomputed when the speed changes.
func (l *Looper) smooth(pitch, tableSr float64) {
	if !l.autoSmooth || pitch >= 1 || pitch <= 0 {
		return
	}

	if pitch != l.lastPitch {
		l.lastPitch = pitch
		fr := pitch * tableSr * 0.45
		b := 2 - math.Cos(2*math.Pi*fr/l.sr)
		l.c2 = b - mathSqrt(b*b-1)
		l.c1 = 1 - l.c2
	}

	for i, x := range l.out {
		l.y1 = core.FlushDenormals(l.c1*x + l.c2*l.y1)
		l.y2 = core.FlushDenormals(l.c1*l.y1 + l.c2*l.y2)
		l.out[i] = l.y2
	}
}
