package main

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/engine"
)

// serverReader streams a server's output as mono float32 little-endian PCM.
type serverReader struct {
	srv *engine.Server
	buf []float64
}

func newServerReader(srv *engine.Server) *serverReader {
	return &serverReader{srv: srv}
}

// Read renders len(p)/4 samples. Samples are clipped to [-1,1].
func (r *serverReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	r.buf = core.EnsureLen(r.buf, n)
	r.srv.Render(r.buf[:n])

	for i, v := range r.buf[:n] {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(float32(core.Clamp(v, -1, 1))))
	}

	return n * 4, nil
}

// play opens the default device and streams srv until ctx is done.
func play(ctx context.Context, srv *engine.Server, sr int) error {
	op := &oto.NewContextOptions{
		SampleRate:   sr,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return err
	}
	<-ready

	player := otoCtx.NewPlayer(newServerReader(srv))
	player.Play()

	<-ctx.Done()
	player.Close()

	return nil
}
