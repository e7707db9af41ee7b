package gen

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/port"
)

// blitEpsilon is the |sin(phase)| below which the kernel is taken as its
// limit value 1.
const blitEpsilon = 1e-9

// Blit is a band-limited impulse train with a controllable number of
// harmonics, computed from the closed-form Dirichlet kernel.
type Blit struct {
	base
	freq  port.Port
	harms port.Port

	phase float64
}

// NewBlit creates an impulse train generator. harms is truncated to an
// integer and negative values count as zero.
func NewBlit(h Host, freq, harms port.Port, opts ...Option) *Blit {
	b := &Blit{freq: freq, harms: harms}
	b.setup(h, opts)
	b.setProcMode()
	b.register(b)

	return b
}

// SetFreq replaces the frequency port.
func (b *Blit) SetFreq(p port.Port) {
	b.freq = p
	b.setProcMode()
}

// SetHarms replaces the harmonic count port.
func (b *Blit) SetHarms(p port.Port) {
	b.harms = p
	b.setProcMode()
}

func (b *Blit) setProcMode() {
	switch port.Code(b.freq, b.harms) {
	case 0:
		b.proc = func() { blitFill(b, b.freq.Const(), b.harms.Const()) }
	case 1:
		b.proc = func() { blitFill(b, b.freq.Signal(), b.harms.Const()) }
	case 10:
		b.proc = func() { blitFill(b, b.freq.Const(), b.harms.Signal()) }
	case 11:
		b.proc = func() { blitFill(b, b.freq.Signal(), b.harms.Signal()) }
	}
}

func blitFill[F, H port.Reader](b *Blit, freq F, harms H) {
	scale := math.Pi / b.sr
	phase := b.phase

	for i := range b.out {
		m := 2*math.Floor(math.Max(harms.At(i), 0)) + 1
		s := math.Sin(phase)
		if math.Abs(s) < blitEpsilon {
			b.out[i] = 1
		} else {
			b.out[i] = math.Sin(m*phase) / (m * s)
		}
		phase = wrapTable(phase+freq.At(i)*scale, math.Pi)
	}

	b.phase = phase
}
