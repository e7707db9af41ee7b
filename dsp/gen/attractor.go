package gen

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/port"
)

// attractor is the state shared by the forward-Euler chaotic generators.
// Each sample advances (x, y, z) once; the primary output is a scaled x and
// the companion output a scaled y.
type attractor struct {
	base
	pitch port.Port
	chaos port.Port

	x, y, z float64
	alt     []float64
	altUnit *AttractorAlt
	setMode func()
}

func (a *attractor) init(h Host, pitch, chaos port.Port, opts []Option) {
	a.pitch, a.chaos = pitch, chaos
	a.x, a.y, a.z = 1, 1, 1
	a.setup(h, opts)
	a.alt = make([]float64, len(a.out))
}

// SetPitch replaces the pitch port, a speed control in [0,1].
func (a *attractor) SetPitch(p port.Port) {
	a.pitch = p
	a.dispatch()
}

// SetChaos replaces the chaos port, in [0,1].
func (a *attractor) SetChaos(p port.Port) {
	a.chaos = p
	a.dispatch()
}

// Stop silences the unit and its companion block. The integrator state is
// kept.
func (a *attractor) Stop() {
	a.base.Stop()
	core.Zero(a.alt)
}

// State returns the current integrator state.
func (a *attractor) State() (x, y, z float64) { return a.x, a.y, a.z }

// Alt returns the companion unit emitting the second state variable. It is
// created and registered on first use and must be computed after its owner.
func (a *attractor) Alt(opts ...Option) *AttractorAlt {
	if a.altUnit == nil {
		u := &AttractorAlt{src: a}
		u.setup(a.host, opts)
		u.proc = u.fill
		u.register(u)
		a.altUnit = u
	}
	return a.altUnit
}

func (a *attractor) dispatch() {
	if a.setMode != nil {
		a.setMode()
	}
}

// AttractorAlt outputs the secondary state variable of a Rossler or Lorenz
// unit, read straight from its owner's companion block.
type AttractorAlt struct {
	base
	src *attractor
}

func (u *AttractorAlt) fill() {
	core.CopyInto(u.out, u.src.alt)
}

// Rossler parameters and output scaling.
const (
	rosslerA        = 0.15
	rosslerB        = 0.20
	rosslerStep     = 2.91
	rosslerScale    = 0.05757
	rosslerAltScale = 0.06028
)

// Rossler generates the x variable of a Rössler attractor. pitch in [0,1]
// maps to a speed multiplier in [1,1000]; chaos in [0,1] maps the c
// parameter to [3,10].
type Rossler struct {
	attractor
}

// NewRossler creates a Rössler attractor.
func NewRossler(h Host, pitch, chaos port.Port, opts ...Option) *Rossler {
	r := &Rossler{}
	r.init(h, pitch, chaos, opts)
	r.setMode = r.setProcMode
	r.setProcMode()
	r.register(r)

	return r
}

func (r *Rossler) setProcMode() {
	p, c := r.pitch, r.chaos
	switch port.Code(p, c) {
	case 0:
		r.proc = func() { rosslerFill(r, p.Const(), c.Const()) }
	case 1:
		r.proc = func() { rosslerFill(r, p.Signal(), c.Const()) }
	case 10:
		r.proc = func() { rosslerFill(r, p.Const(), c.Signal()) }
	case 11:
		r.proc = func() { rosslerFill(r, p.Signal(), c.Signal()) }
	}
}

func rosslerFill[P, C port.Reader](r *Rossler, pitch P, chaos C) {
	step := rosslerStep / r.sr
	x, y, z := r.x, r.y, r.z

	for i := range r.out {
		delta := (core.Clamp(pitch.At(i), 0, 1)*999 + 1) * step
		c := core.Clamp(chaos.At(i), 0, 1)*7 + 3

		dx := -y - z
		dy := x + rosslerA*y
		dz := rosslerB + z*(x-c)
		x += dx * delta
		y += dy * delta
		z += dz * delta

		r.out[i] = x * rosslerScale
		r.alt[i] = y * rosslerAltScale
	}

	r.x, r.y, r.z = x, y, z
}

// Lorenz parameters and output scaling.
const (
	lorenzA        = 10.0
	lorenzB        = 28.0
	lorenzStep     = 0.5
	lorenzScale    = 0.044
	lorenzAltScale = 0.0328
)

// Lorenz generates the x variable of a Lorenz attractor. pitch in [0,1]
// maps to a speed multiplier in [1,750]; chaos in [0,1] maps the c
// parameter to [0.5,3].
type Lorenz struct {
	attractor
}

// NewLorenz creates a Lorenz attractor.
func NewLorenz(h Host, pitch, chaos port.Port, opts ...Option) *Lorenz {
	l := &Lorenz{}
	l.init(h, pitch, chaos, opts)
	l.setMode = l.setProcMode
	l.setProcMode()
	l.register(l)

	return l
}

func (l *Lorenz) setProcMode() {
	p, c := l.pitch, l.chaos
	switch port.Code(p, c) {
	case 0:
		l.proc = func() { lorenzFill(l, p.Const(), c.Const()) }
	case 1:
		l.proc = func() { lorenzFill(l, p.Signal(), c.Const()) }
	case 10:
		l.proc = func() { lorenzFill(l, p.Const(), c.Signal()) }
	case 11:
		l.proc = func() { lorenzFill(l, p.Signal(), c.Signal()) }
	}
}

func lorenzFill[P, C port.Reader](l *Lorenz, pitch P, chaos C) {
	step := lorenzStep / l.sr
	x, y, z := l.x, l.y, l.z

	for i := range l.out {
		delta := (core.Clamp(pitch.At(i), 0, 1)*749 + 1) * step
		c := core.Clamp(chaos.At(i), 0, 1)*2.5 + 0.5

		dx := lorenzA * (y - x)
		dy := x*(lorenzB-z) - y
		dz := x*y - c*z
		x += dx * delta
		y += dy * delta
		z += dz * delta

		l.out[i] = x * lorenzScale
		l.alt[i] = y * lorenzAltScale
	}

	l.x, l.y, l.z = x, y, z
}
