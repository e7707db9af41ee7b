package gen

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// indexed is the common part of units driven entirely by an index signal.
type indexed struct {
	base
	tableReader
	index port.Port
}

// SetIndex replaces the index input. Scalars are rejected with
// port.ErrNotSignal and the previous input stays in place.
func (x *indexed) SetIndex(p port.Port) error {
	if err := port.RequireSignal("index", p); err != nil {
		return err
	}
	x.index = p
	return nil
}

// SetTable replaces the table.
func (x *indexed) SetTable(t wavetable.Table) error { return x.setTable(t) }

func (x *indexed) setupIndexed(h Host, table wavetable.Table, index port.Port, opts []Option) error {
	if err := port.RequireSignal("index", index); err != nil {
		return err
	}
	if err := x.setTable(table); err != nil {
		return err
	}

	x.index = index
	s := x.setup(h, opts)
	x.SetInterp(s.interp)

	return nil
}

// Pointer reads a table at a normalised position given by a signal.
// Positions wrap, so a Phasor index loops through the table.
type Pointer struct {
	indexed
}

// NewPointer creates a table reader driven by index in [0,1).
func NewPointer(h Host, table wavetable.Table, index port.Port, opts ...Option) (*Pointer, error) {
	p := &Pointer{}
	if err := p.setupIndexed(h, table, index, opts); err != nil {
		return nil, err
	}

	p.proc = p.fill
	p.register(p)

	return p, nil
}

func (p *Pointer) fill() {
	data := p.table.Data()
	size := p.table.Size()
	fsize := float64(size)
	idx := p.index.Signal()

	for i := range p.out {
		ip, fp := interp.Split(wrapTable(idx[i]*fsize, fsize))
		p.out[i] = p.interp(data, ip, fp, size)
	}
}

// TableIndex reads a table at integer sample positions given by a signal,
// without interpolation. Positions are clamped to the table.
type TableIndex struct {
	indexed
}

// NewTableIndex creates an integer-indexed table reader.
func NewTableIndex(h Host, table wavetable.Table, index port.Port, opts ...Option) (*TableIndex, error) {
	t := &TableIndex{}
	if err := t.setupIndexed(h, table, index, opts); err != nil {
		return nil, err
	}

	t.proc = t.fill
	t.register(t)

	return t, nil
}

func (t *TableIndex) fill() {
	data := t.table.Data()
	last := float64(t.table.Size() - 1)
	idx := t.index.Signal()

	for i := range t.out {
		t.out[i] = data[int(core.Clamp(idx[i], 0, last))]
	}
}

// Lookup maps a bipolar signal in [-1,1] onto a table, for waveshaping.
type Lookup struct {
	indexed
}

// NewLookup creates a waveshaper reading table with index.
func NewLookup(h Host, table wavetable.Table, index port.Port, opts ...Option) (*Lookup, error) {
	l := &Lookup{}
	if err := l.setupIndexed(h, table, index, opts); err != nil {
		return nil, err
	}

	l.proc = l.fill
	l.register(l)

	return l, nil
}

func (l *Lookup) fill() {
	data := l.table.Data()
	size := l.table.Size()
	fsize := float64(size)
	idx := l.index.Signal()

	for i := range l.out {
		pos := (core.Clamp(idx[i], -1, 1)*0.5 + 0.5) * fsize
		ip, fp := interp.Split(pos)
		if ip >= size {
			ip, fp = size-1, 1
		}
		l.out[i] = l.interp(data, ip, fp, size)
	}
}
