// Command synthplay plays a generator patch on the default audio device.
//
// Usage:
//
//	synthplay [flags]
//
// Without -patch it plays a built-in demo. With -midi, note-on messages from
// the first MIDI input retune the unit named by -target.
//
// Examples:
//
//	synthplay
//	synthplay -patch drone.json -gain -12
//	synthplay -midi -target osc
//	synthplay -dur 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/engine"
	"github.com/cwbudde/algo-synth/dsp/patch"
)

func main() {
	patchFile := flag.String("patch", "", "patch JSON file (default: built-in demo)")
	sr := flag.Int("sr", 48000, "sample rate in Hz")
	block := flag.Int("block", 256, "block size in samples")
	gainDB := flag.Float64("gain", -6, "master gain in dB")
	useMIDI := flag.Bool("midi", false, "retune -target from the first MIDI input")
	target := flag.String("target", demoTarget, "unit id retuned by MIDI notes")
	dur := flag.Duration("dur", 0, "stop after this long (0 plays until interrupted)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: synthplay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Plays a generator patch on the default audio device.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	if err := run(*patchFile, *sr, *block, *gainDB, *useMIDI, *target, *dur); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("synthplay ended.")
}

func run(patchFile string, sr, block int, gainDB float64, useMIDI bool, target string, dur time.Duration) error {
	if sr <= 0 || block <= 0 {
		return fmt.Errorf("sample rate and block size must be > 0: %d, %d", sr, block)
	}

	raw := []byte(demoPatch)
	if patchFile != "" {
		var err error
		if raw, err = os.ReadFile(patchFile); err != nil {
			return err
		}
	}

	srv := engine.New(core.WithSampleRate(float64(sr)), core.WithBlockSize(block))
	srv.SetGain(core.DBToLinear(gainDB))

	p, err := patch.Build(srv, raw)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if dur > 0 {
		ctx, cancel = context.WithTimeout(ctx, dur)
		defer cancel()
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	go func() {
		select {
		case sig := <-signalCh:
			log.Printf("Caught signal %s: shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return play(ctx, srv, sr)
	})

	if useMIDI {
		v := newVoice(srv, p, target)
		if err := v.check(); err != nil {
			return err
		}
		g.Go(func() error {
			for msg := range listenToMIDIIn(ctx) {
				v.handle(msg)
			}
			return nil
		})
	}

	return g.Wait()
}
