package engine

import (
	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func testTable(n int) (*wavetable.Buffer, error) {
	return wavetable.FromSamples(testutil.Ones(n), 48000)
}
