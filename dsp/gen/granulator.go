package gen

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// GrainRetriggerThreshold is the envelope level below which a grain is
// considered silent and picks up new position and duration values.
const GrainRetriggerThreshold = 0.0001

// Granulator defaults.
const (
	DefaultGrains  = 8
	DefaultBaseDur = 0.1

	grainJitter = 0.015
)

// Granulator sums overlapping grains read from a source table, each shaped
// by an envelope table. All grains share one phase ramp offset by a slightly
// jittered per-grain phase.
//
// pitch scales the ramp speed, pos is the read offset in samples and dur the
// grain length in seconds. A grain only moves to new pos and dur values
// while its envelope is below GrainRetriggerThreshold.
type Granulator struct {
	base
	table wavetable.Table
	env   wavetable.Table
	pitch port.Port
	pos   port.Port
	dur   port.Port

	baseDur    float64
	pointerPos float64
	startPos   []float64
	gsize      []float64
	gphase     []float64
	rng        *rand.Rand
}

// NewGranulator creates a granulator with DefaultGrains grains and a base
// duration of DefaultBaseDur seconds.
func NewGranulator(h Host, table, env wavetable.Table, pitch, pos, dur port.Port, opts ...Option) (*Granulator, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := checkTable(env); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	g := &Granulator{
		table:      table,
		env:        env,
		pitch:      pitch,
		pos:        pos,
		dur:        dur,
		baseDur:    DefaultBaseDur,
		pointerPos: 1,
	}

	s := g.setup(h, opts)
	g.rng = newRand(s.seed)
	g.allocGrains(DefaultGrains)
	g.setProcMode()
	g.register(g)

	return g, nil
}

// SetTable replaces the source table.
func (g *Granulator) SetTable(t wavetable.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	g.table = t
	return nil
}

// SetEnv replaces the envelope table.
func (g *Granulator) SetEnv(t wavetable.Table) error {
	if err := checkTable(t); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}
	g.env = t
	return nil
}

// SetPitch replaces the speed port.
func (g *Granulator) SetPitch(p port.Port) {
	g.pitch = p
	g.setProcMode()
}

// SetPos replaces the read position port.
func (g *Granulator) SetPos(p port.Port) {
	g.pos = p
	g.setProcMode()
}

// SetDur replaces the grain duration port.
func (g *Granulator) SetDur(p port.Port) {
	g.dur = p
	g.setProcMode()
}

// SetBaseDur sets the period in seconds of the shared phase ramp at pitch 1.
func (g *Granulator) SetBaseDur(d float64) error {
	if d <= 0 {
		return fmt.Errorf("base duration must be > 0: %f", d)
	}
	g.baseDur = d
	return nil
}

// BaseDur returns the base duration in seconds.
func (g *Granulator) BaseDur() float64 { return g.baseDur }

// SetGrains replaces all grains with n freshly jittered ones.
func (g *Granulator) SetGrains(n int) error {
	if n < 1 {
		return fmt.Errorf("grain count must be > 0: %d", n)
	}
	g.allocGrains(n)
	return nil
}

// Grains returns the number of grains.
func (g *Granulator) Grains() int { return len(g.gphase) }

func (g *Granulator) allocGrains(n int) {
	startPos := make([]float64, n)
	gsize := make([]float64, n)
	gphase := make([]float64, n)

	for i := range gphase {
		jitter := 1 + (g.rng.Float64()*2-1)*grainJitter
		gphase[i] = max(float64(i)/float64(n)*jitter, 0)
	}

	g.startPos, g.gsize, g.gphase = startPos, gsize, gphase
}

func (g *Granulator) setProcMode() {
	p, s, d := g.pitch, g.pos, g.dur
	switch port.Code(p, s, d) {
	case 0:
		g.proc = func() { granulatorFill(g, p.Const(), s.Const(), d.Const()) }
	case 1:
		g.proc = func() { granulatorFill(g, p.Signal(), s.Const(), d.Const()) }
	case 10:
		g.proc = func() { granulatorFill(g, p.Const(), s.Signal(), d.Const()) }
	case 11:
		g.proc = func() { granulatorFill(g, p.Signal(), s.Signal(), d.Const()) }
	case 100:
		g.proc = func() { granulatorFill(g, p.Const(), s.Const(), d.Signal()) }
	case 101:
		g.proc = func() { granulatorFill(g, p.Signal(), s.Const(), d.Signal()) }
	case 110:
		g.proc = func() { granulatorFill(g, p.Const(), s.Signal(), d.Signal()) }
	case 111:
		g.proc = func() { granulatorFill(g, p.Signal(), s.Signal(), d.Signal()) }
	}
}

func granulatorFill[P, S, D port.Reader](g *Granulator, pitch P, pos S, dur D) {
	data := g.table.Data()
	fsize := float64(g.table.Size())
	envData := g.env.Data()
	envSize := float64(g.env.Size())
	rate := 1 / g.baseDur / g.sr
	ptr := g.pointerPos

	for i := range g.out {
		ptr += pitch.At(i) * rate
		sum := 0.0

		for j, phase := range g.gphase {
			ppos := wrapUnit(ptr + phase)

			amp := linearAt(envData, ppos*envSize)
			if amp < GrainRetriggerThreshold {
				g.startPos[j] = pos.At(i)
				g.gsize[j] = dur.At(i) * g.sr
			}

			index := ppos*g.gsize[j] + g.startPos[j]
			if index >= 0 && index < fsize {
				sum += linearAt(data, index) * amp
			}
		}

		g.out[i] = sum
		ptr = wrapUnit(ptr)
	}

	g.pointerPos = ptr
}

// linearAt reads data at a non-negative fractional index whose integer part
// has a following guard sample.
func linearAt(data []float64, x float64) float64 {
	i := int(x)
	f := x - float64(i)
	return data[i] + (data[i+1]-data[i])*f
}
