package gen

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// TableRead plays a table once or in a loop at an arbitrary rate, including
// backwards for negative frequencies. A frequency equal to the table's Rate
// plays it at its recorded speed.
//
// Every sample where playback wraps or reaches the end is flagged in a
// trigger block, exposed through Trig. When not looping, the end of the table
// stops playback until Play or Out is called again.
type TableRead struct {
	base
	tableReader
	freq port.Port

	loop     bool
	keepLast bool
	stopped  bool

	pointerPos float64
	last       float64
	trigs      []float64
	trig       *TableReadTrig
}

// NewTableRead creates a table player. Playback starts at the beginning of
// the table without looping.
func NewTableRead(h Host, table wavetable.Table, freq port.Port, opts ...Option) (*TableRead, error) {
	t := &TableRead{freq: freq}
	if err := t.setTable(table); err != nil {
		return nil, err
	}

	s := t.setup(h, opts)
	t.trigs = make([]float64, len(t.out))
	t.SetInterp(s.interp)
	t.setProcMode()
	t.register(t)

	return t, nil
}

// SetTable replaces the table.
func (t *TableRead) SetTable(tbl wavetable.Table) error { return t.setTable(tbl) }

// SetFreq replaces the playback frequency port.
func (t *TableRead) SetFreq(p port.Port) {
	t.freq = p
	t.setProcMode()
}

// SetLoop enables or disables looping.
func (t *TableRead) SetLoop(loop bool) { t.loop = loop }

// SetKeepLast makes a stopped one-shot hold its final sample instead of
// dropping to silence.
func (t *TableRead) SetKeepLast(keep bool) { t.keepLast = keep }

// Stopped reports whether a one-shot playback has reached its end.
func (t *TableRead) Stopped() bool { return t.stopped }

// Play restarts playback from the beginning of the table.
func (t *TableRead) Play() {
	t.restart()
	t.base.Play()
}

// Out restarts playback and routes the unit to the host output.
func (t *TableRead) Out() {
	t.restart()
	t.base.Out()
}

// Stop silences the reader and drops any pending trigger flags.
func (t *TableRead) Stop() {
	t.base.Stop()
	clear(t.trigs)
}

func (t *TableRead) restart() {
	t.pointerPos = 0
	t.stopped = false
	t.last = 0
}

// Trig returns the companion unit whose output is this reader's trigger
// block. It is created and registered on first use.
func (t *TableRead) Trig(opts ...Option) *TableReadTrig {
	if t.trig == nil {
		t.trig = newTableReadTrig(t.host, t, opts)
	}
	return t.trig
}

func (t *TableRead) setProcMode() {
	switch port.Code(t.freq) {
	case 0:
		t.proc = func() { tableReadFill(t, t.freq.Const()) }
	case 1:
		t.proc = func() { tableReadFill(t, t.freq.Signal()) }
	}
}

func tableReadFill[F port.Reader](t *TableRead, freq F) {
	clear(t.trigs)

	data := t.table.Data()
	size := t.table.Size()
	fsize := float64(size)
	scale := fsize / t.sr
	pos := t.pointerPos

	for i := range t.out {
		if !t.stopped {
			if pos >= fsize || pos < 0 {
				t.trigs[i] = 1
				if t.loop {
					pos = wrapTable(pos, fsize)
				} else {
					t.stopped = true
				}
			}
		}

		if t.stopped {
			if t.keepLast {
				t.out[i] = t.last
			} else {
				t.out[i] = 0
			}
			continue
		}

		ip, fp := interp.Split(pos)
		t.last = t.interp(data, ip, fp, size)
		t.out[i] = t.last
		pos += freq.At(i) * scale
	}

	t.pointerPos = pos
}

// TableReadTrig outputs 1 at every sample where its TableRead wrapped or
// finished during the current block, and 0 elsewhere. The reader clears the
// flags at the start of each of its blocks, so each trigger is seen in
// exactly one block. Schedule it after the reader.
type TableReadTrig struct {
	base
	reader *TableRead
}

func newTableReadTrig(h Host, reader *TableRead, opts []Option) *TableReadTrig {
	tr := &TableReadTrig{reader: reader}
	tr.setup(h, opts)
	tr.proc = tr.fill
	tr.register(tr)

	return tr
}

func (tr *TableReadTrig) fill() {
	core.CopyInto(tr.out, tr.reader.trigs)
}
