package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/gen"
)

// ErrNotRegistered is returned by Remove for a unit the server does not schedule.
var ErrNotRegistered = errors.New("engine: unit not registered")

// Server is a gen.Host computing its units in registration order, one block
// per Tick. Units must be created producers first.
//
// Tick, Render and the unit methods belong to the audio goroutine. Other
// goroutines hand work to it with Post.
type Server struct {
	cfg   core.ProcessorConfig
	units []gen.Unit
	out   []float64
	gain  float64

	// cursor is the read position of Render inside out.
	cursor int
	ticks  uint64

	mu      sync.Mutex
	pending []func()
}

// New creates a server with the given clock and unity gain.
func New(opts ...core.ProcessorOption) *Server {
	cfg := core.ApplyProcessorOptions(opts...)

	return &Server{
		cfg:    cfg,
		out:    make([]float64, cfg.BlockSize),
		gain:   1,
		cursor: cfg.BlockSize,
	}
}

// Config implements gen.Host.
func (s *Server) Config() core.ProcessorConfig { return s.cfg }

// Register implements gen.Host. Registering a unit twice is a no-op.
func (s *Server) Register(u gen.Unit) {
	if slices.Contains(s.units, u) {
		return
	}
	s.units = append(s.units, u)
}

// Deregister implements gen.Host.
func (s *Server) Deregister(u gen.Unit) {
	_ = s.Remove(u)
}

// Remove takes u off the schedule.
func (s *Server) Remove(u gen.Unit) error {
	i := slices.Index(s.units, u)
	if i < 0 {
		return fmt.Errorf("%w: %T", ErrNotRegistered, u)
	}
	s.units = slices.Delete(s.units, i, i+1)
	return nil
}

// Units returns a copy of the schedule.
func (s *Server) Units() []gen.Unit { return slices.Clone(s.units) }

// SetGain sets the linear gain applied to the mixed output.
func (s *Server) SetGain(g float64) { s.gain = g }

// Gain returns the output gain.
func (s *Server) Gain() float64 { return s.gain }

// Ticks returns the number of blocks computed so far.
func (s *Server) Ticks() uint64 { return s.ticks }

// Post queues fn to run on the audio goroutine before the next block.
// It is safe to call from any goroutine.
func (s *Server) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

func (s *Server) drain() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// Tick applies posted work, computes every unit once and mixes the units
// routed to the output. A unit that stops itself during the block is still
// mixed for that block.
func (s *Server) Tick() {
	s.drain()

	core.Zero(s.out)
	for _, u := range s.units {
		mixed := u.IsOutput()
		u.Compute()
		if mixed {
			vecmath.AddBlockInPlace(s.out, u.Block())
		}
	}

	if s.gain != 1 {
		vecmath.ScaleBlock(s.out, s.out, s.gain)
	}
	s.ticks++
}

// Output returns the mixed block of the last Tick.
func (s *Server) Output() []float64 { return s.out }

// Render fills dst with output samples, ticking whenever the current block
// is used up. Consecutive calls continue where the previous one stopped.
func (s *Server) Render(dst []float64) {
	for len(dst) > 0 {
		if s.cursor >= len(s.out) {
			s.Tick()
			s.cursor = 0
		}
		n := copy(dst, s.out[s.cursor:])
		s.cursor += n
		dst = dst[n:]
	}
}
