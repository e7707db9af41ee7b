package patch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-synth/dsp/window"
)

// DefaultTableSize is the length of the built-in tables.
const DefaultTableSize = 8192

const builtinHarmonics = 15

// ErrUnknownTable is returned when a node names a table that is neither
// built in nor supplied with WithTable.
var ErrUnknownTable = errors.New("patch: unknown table")

// tableSet resolves table names for one build. Built-in tables are generated
// on first use at the host sample rate. Any window name accepted by
// window.Parse also names an envelope table.
type tableSet struct {
	size   int
	sr     float64
	tables map[string]wavetable.Table
}

func newTableSet(size int, sr float64, extra map[string]wavetable.Table) *tableSet {
	ts := &tableSet{size: size, sr: sr, tables: make(map[string]wavetable.Table, len(extra))}
	for name, t := range extra {
		ts.tables[name] = t
	}
	return ts
}

func (ts *tableSet) get(name string) (wavetable.Table, error) {
	if t, ok := ts.tables[name]; ok {
		return t, nil
	}

	var (
		t   *wavetable.Buffer
		err error
	)

	switch name {
	case "sine":
		t, err = wavetable.Harm(ts.size, ts.sr)
	case "saw":
		t, err = wavetable.Saw(ts.size, ts.sr, builtinHarmonics)
	case "square":
		t, err = wavetable.Square(ts.size, ts.sr, builtinHarmonics)
	case "triangle":
		t, err = wavetable.Harm(ts.size, ts.sr, triangleAmps(builtinHarmonics)...)
	case "hann":
		t, err = wavetable.Hann(ts.size, ts.sr)
	case "curve":
		t, err = wavetable.Curve(ts.size, ts.sr, 0, 0)
	default:
		wt, perr := window.Parse(name)
		if perr != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
		}
		t, err = wavetable.Window(wt, ts.size, ts.sr)
	}

	if err != nil {
		return nil, err
	}

	ts.tables[name] = t
	return t, nil
}

// triangleAmps returns the odd-harmonic series of a unit triangle wave.
func triangleAmps(order int) []float64 {
	amps := make([]float64, order)
	sign := 1.0
	for k := 0; k < order; k += 2 {
		n := float64(k + 1)
		amps[k] = sign * 8 / (math.Pi * math.Pi * n * n)
		sign = -sign
	}
	return amps
}
