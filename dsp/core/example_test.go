package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(128),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=48000 blockSize=128
}

func ExampleMIDIToHz() {
	fmt.Printf("%.1f %.1f\n", core.MIDIToHz(69), core.MIDIToHz(57))

	// Output:
	// 440.0 220.0
}
