package wavetable

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSize is the length of generated tables when none is requested.
const DefaultSize = 8192

// ErrEmpty is returned when a table would have no samples.
var ErrEmpty = errors.New("wavetable: table must not be empty")

// Table is the read-only view generators hold on a sample buffer.
type Table interface {
	// Data returns Size()+1 samples; the last one is the guard sample.
	Data() []float64
	Size() int
	SampleRate() float64
}

// Buffer is the concrete Table implementation.
type Buffer struct {
	data []float64
	sr   float64
	loop bool
}

// New returns a silent one-shot table of size samples at sample rate sr.
func New(size int, sr float64) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrEmpty, size)
	}
	if sr <= 0 {
		return nil, fmt.Errorf("wavetable: sample rate must be > 0: %f", sr)
	}

	return &Buffer{data: make([]float64, size+1), sr: sr}, nil
}

// FromSamples copies samples into a one-shot table recorded at sr.
func FromSamples(samples []float64, sr float64) (*Buffer, error) {
	b, err := New(len(samples), sr)
	if err != nil {
		return nil, err
	}

	copy(b.data, samples)
	b.data[len(samples)] = samples[len(samples)-1]

	return b, nil
}

// FromLoop copies samples into a periodic table recorded at sr. The guard
// sample repeats the first sample, so looping reads interpolate the last
// segment back into the start.
func FromLoop(samples []float64, sr float64) (*Buffer, error) {
	b, err := FromSamples(samples, sr)
	if err != nil {
		return nil, err
	}

	b.SetPeriodic(true)
	return b, nil
}

// Data implements Table.
func (b *Buffer) Data() []float64 { return b.data }

// Size implements Table.
func (b *Buffer) Size() int { return len(b.data) - 1 }

// SampleRate implements Table.
func (b *Buffer) SampleRate() float64 { return b.sr }

// Rate returns the frequency that plays the whole table once per cycle.
func (b *Buffer) Rate() float64 { return b.sr / float64(b.Size()) }

// Duration returns the table length in seconds.
func (b *Buffer) Duration() float64 { return float64(b.Size()) / b.sr }

// Periodic reports whether the guard sample repeats the first sample.
func (b *Buffer) Periodic() bool { return b.loop }

// SetPeriodic switches the guard sample between the first sample (periodic)
// and the last sample (one-shot).
func (b *Buffer) SetPeriodic(periodic bool) {
	b.loop = periodic

	n := b.Size()
	if periodic {
		b.data[n] = b.data[0]
	} else {
		b.data[n] = b.data[n-1]
	}
}

// Set writes v at index i and keeps the guard sample consistent.
// Out-of-range indices are ignored.
func (b *Buffer) Set(i int, v float64) {
	n := b.Size()
	if i < 0 || i >= n {
		return
	}

	b.data[i] = v
	switch {
	case b.loop && i == 0:
		b.data[n] = v
	case !b.loop && i == n-1:
		b.data[n] = v
	}
}

// Normalize scales the table so its peak absolute value is 1.
func (b *Buffer) Normalize() {
	peak := 0.0
	for _, v := range b.data {
		peak = math.Max(peak, math.Abs(v))
	}

	if peak == 0 {
		return
	}

	scale := 1 / peak
	for i := range b.data {
		b.data[i] *= scale
	}
}

// periodic allocates a table and evaluates fn at each phase in [0,1),
// duplicating the first sample as guard.
func periodic(size int, sr float64, fn func(phase float64) float64) (*Buffer, error) {
	b, err := New(size, sr)
	if err != nil {
		return nil, err
	}

	for i := range size {
		b.data[i] = fn(float64(i) / float64(size))
	}
	b.data[size] = b.data[0]
	b.loop = true

	return b, nil
}
