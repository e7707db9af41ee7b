package gen

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/dsp/port"
)

// Operand modes of the post-processing stage.
const (
	modeScalar   = 0
	modeSignal   = 1
	modeReversed = 2
)

// divGuard is the smallest magnitude a signal divisor may take.
const divGuard = 0.00001

// Mul returns the current multiplier port.
func (b *base) Mul() port.Port { return b.mul }

// Add returns the current offset port. After SetSub with a scalar it holds
// the negated value.
func (b *base) Add() port.Port { return b.add }

// SetMul sets the multiplier applied to every output sample.
func (b *base) SetMul(p port.Port) {
	b.mul = p
	b.mulMode = p.Bit()
	b.setPostMode()
}

// SetAdd sets the offset added to every output sample.
func (b *base) SetAdd(p port.Port) {
	b.add = p
	b.addMode = p.Bit()
	b.setPostMode()
}

// SetSub subtracts p from every output sample. A scalar is stored as its
// negation; a signal selects the reversed-operand routine.
func (b *base) SetSub(p port.Port) {
	if p.IsSignal() {
		b.add = p
		b.addMode = modeReversed
	} else {
		b.add = port.Scalar(-p.Value())
		b.addMode = modeScalar
	}
	b.setPostMode()
}

// SetDiv divides every output sample by p. A scalar is stored as its
// reciprocal and ignored when zero; a signal selects the reversed-operand
// routine, which clamps divisors to at least 1e-5 in magnitude.
func (b *base) SetDiv(p port.Port) {
	if p.IsSignal() {
		b.mul = p
		b.mulMode = modeReversed
	} else {
		if p.Value() == 0 {
			return
		}
		b.mul = port.Scalar(1 / p.Value())
		b.mulMode = modeScalar
	}
	b.setPostMode()
}

func (b *base) setPostMode() {
	switch b.mulMode + 10*b.addMode {
	case 0:
		b.post = func() {
			m, a := b.mul.Value(), b.add.Value()
			if m == 1 && a == 0 {
				return
			}
			mulAdd(b.out, port.Const(m), port.Const(a))
		}
	case 1:
		b.post = func() {
			vecmath.MulBlockInPlace(b.out, b.mul.Signal())
			if a := b.add.Value(); a != 0 {
				for i := range b.out {
					b.out[i] += a
				}
			}
		}
	case 2:
		b.post = func() { divAdd(b.out, b.mul.Signal(), b.add.Const()) }
	case 10:
		b.post = func() { mulAdd(b.out, b.mul.Const(), b.add.Signal()) }
	case 11:
		b.post = func() {
			vecmath.MulBlockInPlace(b.out, b.mul.Signal())
			add := b.add.Signal()
			for i := range b.out {
				b.out[i] += add[i]
			}
		}
	case 12:
		b.post = func() { divAdd(b.out, b.mul.Signal(), b.add.Signal()) }
	case 20:
		b.post = func() { mulSub(b.out, b.mul.Const(), b.add.Signal()) }
	case 21:
		b.post = func() { mulSub(b.out, b.mul.Signal(), b.add.Signal()) }
	case 22:
		b.post = func() { divSub(b.out, b.mul.Signal(), b.add.Signal()) }
	}
}

func mulAdd[M, A port.Reader](out []float64, mul M, add A) {
	for i, v := range out {
		out[i] = float64(v*mul.At(i)) + add.At(i)
	}
}

func mulSub[M, A port.Reader](out []float64, mul M, add A) {
	for i, v := range out {
		out[i] = float64(v*mul.At(i)) - add.At(i)
	}
}

func divAdd[M, A port.Reader](out []float64, mul M, add A) {
	for i, v := range out {
		out[i] = v/guardDivisor(mul.At(i)) + add.At(i)
	}
}

func divSub[M, A port.Reader](out []float64, mul M, add A) {
	for i, v := range out {
		out[i] = v/guardDivisor(mul.At(i)) - add.At(i)
	}
}

func guardDivisor(d float64) float64 {
	if d < divGuard && d > -divGuard {
		return divGuard
	}
	return d
}
