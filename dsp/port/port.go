// Package port models generator parameters that are either a constant scalar
// or a per-sample signal pulled from another unit's output block.
//
// Units resolve their ports into the [Const] or [Signal] reader types when
// they dispatch, so sample loops index a typed value instead of testing the
// port kind on every sample.
package port

import (
	"errors"
	"fmt"
)

// ErrNotSignal is returned when a scalar is supplied where a signal is required.
var ErrNotSignal = errors.New("port: value must be a signal")

// Source provides one block of samples per control cycle.
type Source interface {
	Block() []float64
}

// Port is a scalar-or-signal parameter value. The zero Port is the scalar 0.
type Port struct {
	value float64
	src   Source
}

// Scalar returns a constant port.
func Scalar(v float64) Port {
	return Port{value: v}
}

// From returns a port reading src's current output block.
// A nil src yields the scalar 0.
func From(src Source) Port {
	return Port{src: src}
}

// IsSignal reports whether p reads another unit's output.
func (p Port) IsSignal() bool { return p.src != nil }

// Bit returns the dispatch bit of p: 0 for scalar, 1 for signal.
func (p Port) Bit() int {
	if p.src != nil {
		return 1
	}
	return 0
}

// Value returns the scalar value. It is 0 for signal ports.
func (p Port) Value() float64 { return p.value }

// Source returns the upstream provider, or nil for scalar ports.
func (p Port) Source() Source { return p.src }

// Const resolves a scalar port into a reader.
func (p Port) Const() Const { return Const(p.value) }

// Signal resolves a signal port into a reader over the upstream block.
// Scalar ports resolve to a nil Signal.
func (p Port) Signal() Signal {
	if p.src == nil {
		return nil
	}
	return Signal(p.src.Block())
}

// First returns the value at sample 0 of the current block.
func (p Port) First() float64 {
	if p.src == nil {
		return p.value
	}

	b := p.src.Block()
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// At reads sample i with a kind test. Sample loops use resolved readers instead;
// At serves occasional reads such as loop resets.
func (p Port) At(i int) float64 {
	if p.src == nil {
		return p.value
	}
	return p.src.Block()[i]
}

// String implements fmt.Stringer.
func (p Port) String() string {
	if p.src != nil {
		return fmt.Sprintf("signal(%T)", p.src)
	}
	return fmt.Sprintf("%g", p.value)
}

// Code returns the procedure code sum(bit_k * 10^k) over ports in parameter order.
func Code(ports ...Port) int {
	code, weight := 0, 1
	for _, p := range ports {
		code += p.Bit() * weight
		weight *= 10
	}
	return code
}

// RequireSignal returns ErrNotSignal when p is a scalar.
func RequireSignal(name string, p Port) error {
	if !p.IsSignal() {
		return fmt.Errorf("%w: %s", ErrNotSignal, name)
	}
	return nil
}
