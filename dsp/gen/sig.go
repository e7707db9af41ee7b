package gen

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/port"
)

// Sig turns a port into a unit, so a constant can feed signal-only inputs
// such as a Pointer index, and any signal can be rescaled by mul and add.
type Sig struct {
	base
	value port.Port
}

// NewSig creates a unit whose output is value.
func NewSig(h Host, value port.Port, opts ...Option) *Sig {
	s := &Sig{value: value}
	s.setup(h, opts)
	s.setProcMode()
	s.register(s)

	return s
}

// SetValue replaces the value port.
func (s *Sig) SetValue(p port.Port) {
	s.value = p
	s.setProcMode()
}

// Value returns the value port.
func (s *Sig) Value() port.Port { return s.value }

func (s *Sig) setProcMode() {
	switch port.Code(s.value) {
	case 0:
		s.proc = func() { core.Fill(s.out, float64(s.value.Const())) }
	case 1:
		s.proc = func() { core.CopyInto(s.out, s.value.Signal()) }
	}
}
