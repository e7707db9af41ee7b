package gen

import (
	"fmt"
	"math"
	"math/rand"
)

// NoiseKind selects the white noise source.
type NoiseKind int

const (
	// NoiseRand draws from a seeded pseudo-random generator.
	NoiseRand NoiseKind = iota
	// NoiseLCG uses a 16-bit linear congruential generator with a short,
	// audibly periodic cycle.
	NoiseLCG
)

// noiseSource produces uniform white noise in [-0.99, 0.99).
type noiseSource struct {
	kind NoiseKind
	rng  *rand.Rand
	lcg  uint32
}

func (n *noiseSource) next() float64 {
	if n.kind == NoiseLCG {
		n.lcg = (n.lcg*15625 + 1) & 0xFFFF
		return (float64(n.lcg) - 0x8000) * 3.0517578125e-05 * 0.99
	}
	return n.rng.Float64()*1.98 - 0.99
}

// Noise is a white noise generator.
type Noise struct {
	base
	src noiseSource
}

// NewNoise creates a white noise generator of the given kind.
func NewNoise(h Host, kind NoiseKind, opts ...Option) (*Noise, error) {
	n := &Noise{}
	if err := n.SetKind(kind); err != nil {
		return nil, err
	}

	s := n.setup(h, opts)
	n.src.rng = newRand(s.seed)
	n.src.lcg = uint32(s.seed) & 0xFFFF
	n.proc = n.fill
	n.register(n)

	return n, nil
}

// SetKind switches the noise source.
func (n *Noise) SetKind(k NoiseKind) error {
	if k != NoiseRand && k != NoiseLCG {
		return fmt.Errorf("noise kind must be 0 or 1: %d", k)
	}
	n.src.kind = k
	return nil
}

func (n *Noise) fill() {
	for i := range n.out {
		n.out[i] = n.src.next()
	}
}

// PinkNoise is white noise shaped to a -3 dB/octave slope with Paul
// Kellet's refined filter.
type PinkNoise struct {
	base
	src noiseSource
	c   [7]float64
}

// NewPinkNoise creates a pink noise generator.
func NewPinkNoise(h Host, opts ...Option) *PinkNoise {
	p := &PinkNoise{}
	s := p.setup(h, opts)
	p.src.rng = newRand(s.seed)
	p.proc = p.fill
	p.register(p)

	return p
}

func (p *PinkNoise) fill() {
	c := &p.c
	for i := range p.out {
		w := p.src.next()
		c[0] = 0.99886*c[0] + w*0.0555179
		c[1] = 0.99332*c[1] + w*0.0750759
		c[2] = 0.96900*c[2] + w*0.1538520
		c[3] = 0.86650*c[3] + w*0.3104856
		c[4] = 0.55000*c[4] + w*0.5329522
		c[5] = -0.7616*c[5] - w*0.0168980
		p.out[i] = (c[0] + c[1] + c[2] + c[3] + c[4] + c[5] + c[6] + w*0.5362) * 0.11
		c[6] = w * 0.115926
	}
}

// BrownNoise is white noise through a one-pole lowpass at 20 Hz, giving a
// -6 dB/octave slope.
type BrownNoise struct {
	base
	src    noiseSource
	c1, c2 float64
	y      float64
}

// NewBrownNoise creates a brown noise generator.
func NewBrownNoise(h Host, opts ...Option) *BrownNoise {
	b := &BrownNoise{}
	s := b.setup(h, opts)
	b.src.rng = newRand(s.seed)

	k := 2 - math.Cos(2*math.Pi*20/b.sr)
	b.c2 = k - mathSqrt(k*k-1)
	b.c1 = 1 - b.c2

	b.proc = b.fill
	b.register(b)

	return b
}

func (b *BrownNoise) fill() {
	for i := range b.out {
		b.y = b.c1*b.src.next() + b.c2*b.y
		b.out[i] = b.y * 20
	}
}
