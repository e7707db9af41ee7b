package testutil

import (
	"slices"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/port"
)

// Host is a minimal gen.Host that computes its units in registration order.
type Host struct {
	cfg   core.ProcessorConfig
	units []gen.Unit
}

// NewHost returns a Host with the given clock.
func NewHost(opts ...core.ProcessorOption) *Host {
	return &Host{cfg: core.ApplyProcessorOptions(opts...)}
}

// Config implements gen.Host.
func (h *Host) Config() core.ProcessorConfig { return h.cfg }

// Register implements gen.Host.
func (h *Host) Register(u gen.Unit) { h.units = append(h.units, u) }

// Deregister implements gen.Host.
func (h *Host) Deregister(u gen.Unit) {
	h.units = slices.DeleteFunc(h.units, func(x gen.Unit) bool { return x == u })
}

// Units returns the registered units in schedule order.
func (h *Host) Units() []gen.Unit { return h.units }

// Tick computes one block on every registered unit.
func (h *Host) Tick() {
	for _, u := range h.units {
		u.Compute()
	}
}

// Render ticks the host n times and returns the concatenated blocks of src.
func (h *Host) Render(src port.Source, n int) []float64 {
	out := make([]float64, 0, n*h.cfg.BlockSize)
	for range n {
		h.Tick()
		out = append(out, src.Block()...)
	}
	return out
}
