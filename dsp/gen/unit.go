package gen

import (
	"errors"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// ErrNoTable is returned when a table-reading unit is given a nil or empty table.
var ErrNoTable = errors.New("gen: table must not be nil or empty")

// Host owns the clock and the schedule units are computed in.
type Host interface {
	Config() core.ProcessorConfig
	Register(u Unit)
	Deregister(u Unit)
}

// Unit is the contract between a generator and its host.
type Unit interface {
	port.Source
	// Compute fills the output block for the current cycle.
	Compute()
	Play()
	Out()
	Stop()
	IsActive() bool
	IsOutput() bool
}

// Option configures a unit at construction.
type Option func(*settings)

type settings struct {
	mul    port.Port
	add    port.Port
	interp interp.Mode
	seed   int64
}

func defaultSettings() settings {
	return settings{
		mul:    port.Scalar(1),
		add:    port.Scalar(0),
		interp: interp.Linear,
		seed:   1,
	}
}

// WithMul sets the initial amplitude multiplier.
func WithMul(p port.Port) Option {
	return func(s *settings) { s.mul = p }
}

// WithAdd sets the initial offset.
func WithAdd(p port.Port) Option {
	return func(s *settings) { s.add = p }
}

// WithInterp sets the table interpolation mode of units that read tables.
func WithInterp(mode interp.Mode) Option {
	return func(s *settings) { s.interp = interp.Normalize(mode) }
}

// WithSeed seeds units that use randomness (noise, grain jitter).
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

// base carries the state every unit shares: output block, activity flags,
// mul/add ports and the two dispatched routines.
type base struct {
	host Host
	self Unit
	sr   float64
	out  []float64

	active bool
	output bool

	mul     port.Port
	add     port.Port
	mulMode int
	addMode int

	proc func()
	post func()
}

// setup initialises the shared state from opts. The caller dispatches its
// own block routine and then calls register.
func (b *base) setup(h Host, opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	cfg := h.Config()
	b.host = h
	b.sr = cfg.SampleRate
	b.out = make([]float64, cfg.BlockSize)
	b.active = true
	b.proc = func() {}
	b.SetMul(s.mul)
	b.SetAdd(s.add)

	return s
}

func (b *base) register(self Unit) {
	b.self = self
	b.host.Register(self)
}

// Block returns the output block computed by the last Compute call.
func (b *base) Block() []float64 { return b.out }

// Compute runs the block routine and the post-processing stage.
// Inactive units emit silence.
func (b *base) Compute() {
	if !b.active {
		core.Zero(b.out)
		return
	}

	b.proc()
	b.post()
}

// Play activates the unit without routing it to the host output.
func (b *base) Play() { b.active = true }

// Out activates the unit and routes it to the host output.
func (b *base) Out() {
	b.active = true
	b.output = true
}

// Stop deactivates the unit and silences its output block. State is kept.
func (b *base) Stop() {
	b.active = false
	b.output = false
	core.Zero(b.out)
}

// IsActive reports whether Compute produces sound.
func (b *base) IsActive() bool { return b.active }

// IsOutput reports whether the host should mix this unit into its output.
func (b *base) IsOutput() bool { return b.output }

// Close stops the unit and removes it from its host schedule.
func (b *base) Close() {
	if b.self == nil {
		b.Stop()
		return
	}
	b.self.Stop()
	b.host.Deregister(b.self)
}

// SampleRate returns the host sample rate the unit was built for.
func (b *base) SampleRate() float64 { return b.sr }

func checkTable(t wavetable.Table) error {
	if t == nil || t.Size() < 1 || len(t.Data()) < t.Size()+1 {
		return ErrNoTable
	}
	return nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
