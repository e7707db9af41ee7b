package main

import (
	"context"
	"fmt"
	"log"

	"gitlab.com/gomidi/rtmididrv"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/engine"
	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/patch"
	"github.com/cwbudde/algo-synth/dsp/port"
)

// listenToMIDIIn forwards raw messages from the first MIDI input until ctx
// is done. The channel is closed when listening stops.
func listenToMIDIIn(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 256)
	go func() {
		defer close(ch)

		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			if err := drv.Close(); err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()

		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		if len(ins) == 0 {
			log.Println("WARN: MIDI IN not found")
			return
		}

		in := ins[0]
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		defer func() {
			if err := in.Close(); err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("listening to " + in.String())

		if err := in.SetListener(func(data []byte, _ int64) {
			msg := append([]byte(nil), data...)
			select {
			case ch <- msg:
			default:
			}
		}); err != nil {
			log.Printf("failed to set listener: %v\n", err)
			return
		}
		defer func() {
			if err := in.StopListening(); err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()

		<-ctx.Done()
	}()
	return ch
}

type noteEvent struct {
	on       bool
	note     uint8
	velocity uint8
}

// parseNote decodes note-on and note-off messages on any channel. A note-on
// with zero velocity is a note-off.
func parseNote(msg []byte) (noteEvent, bool) {
	if len(msg) < 3 {
		return noteEvent{}, false
	}

	switch msg[0] & 0xF0 {
	case 0x90:
		return noteEvent{on: msg[2] > 0, note: msg[1], velocity: msg[2]}, true
	case 0x80:
		return noteEvent{note: msg[1]}, true
	default:
		return noteEvent{}, false
	}
}

// voice maps notes onto the frequency and amplitude of one patch unit.
// Changes are posted to the server and applied at the next block boundary.
type voice struct {
	srv  *engine.Server
	id   string
	unit gen.Unit
	held int
}

type freqSetter interface{ SetFreq(p port.Port) }

type carrierSetter interface{ SetCarrier(p port.Port) }

type mulSetter interface{ SetMul(p port.Port) }

func newVoice(srv *engine.Server, p *patch.Patch, id string) *voice {
	u, _ := p.Unit(id)
	return &voice{srv: srv, id: id, unit: u, held: -1}
}

func (v *voice) check() error {
	switch v.unit.(type) {
	case nil:
		return fmt.Errorf("target unit %q not in patch", v.id)
	case freqSetter, carrierSetter:
		return nil
	default:
		return fmt.Errorf("target unit %q has no frequency", v.id)
	}
}

func (v *voice) handle(msg []byte) {
	ev, ok := parseNote(msg)
	if !ok {
		return
	}

	if !ev.on {
		if int(ev.note) == v.held {
			v.held = -1
			v.srv.Post(func() { v.setMul(0) })
		}
		return
	}

	v.held = int(ev.note)
	hz := core.MIDIToHz(float64(ev.note))
	amp := float64(ev.velocity) / 127

	v.srv.Post(func() {
		switch u := v.unit.(type) {
		case freqSetter:
			u.SetFreq(port.Scalar(hz))
		case carrierSetter:
			u.SetCarrier(port.Scalar(hz))
		}
		v.setMul(amp)
	})
}

func (v *voice) setMul(amp float64) {
	if m, ok := v.unit.(mulSetter); ok {
		m.SetMul(port.Scalar(amp))
	}
}
