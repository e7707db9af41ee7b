package patch

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// DefaultRegistry holds a factory for every generator in package gen.
// Parameter defaults follow the unit constructors' usual settings.
var DefaultRegistry = newDefaultRegistry()

func unit[U gen.Unit](u U, err error) (gen.Unit, error) {
	if err != nil {
		return nil, err
	}
	return u, nil
}

//nolint:funlen
func newDefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("sig", func(c Context) (gen.Unit, error) {
		return gen.NewSig(c.Host, c.Port("value", 0), c.Options()...), nil
	}, "value")

	r.MustRegister("sine", func(c Context) (gen.Unit, error) {
		return gen.NewSine(c.Host, c.Port("freq", 1000), c.Port("phase", 0), c.Options()...), nil
	}, "freq", "phase")

	r.MustRegister("sineloop", func(c Context) (gen.Unit, error) {
		return gen.NewSineLoop(c.Host, c.Port("freq", 1000), c.Port("feedback", 0), c.Options()...), nil
	}, "freq", "feedback")

	r.MustRegister("osc", func(c Context) (gen.Unit, error) {
		t, err := c.Table("table", "sine")
		if err != nil {
			return nil, err
		}
		u, err := gen.NewOsc(c.Host, t, c.Port("freq", 1000), c.Port("phase", 0), c.Options()...)
		return unit(u, err)
	}, "freq", "phase")

	r.MustRegister("oscloop", func(c Context) (gen.Unit, error) {
		t, err := c.Table("table", "sine")
		if err != nil {
			return nil, err
		}
		u, err := gen.NewOscLoop(c.Host, t, c.Port("freq", 1000), c.Port("feedback", 0), c.Options()...)
		return unit(u, err)
	}, "freq", "feedback")

	r.MustRegister("phasor", func(c Context) (gen.Unit, error) {
		return gen.NewPhasor(c.Host, c.Port("freq", 100), c.Port("phase", 0), c.Options()...), nil
	}, "freq", "phase")

	r.MustRegister("pointer", indexedFactory(gen.NewPointer), "index")
	r.MustRegister("tableindex", indexedFactory(gen.NewTableIndex), "index")
	r.MustRegister("lookup", indexedFactory(gen.NewLookup), "index")

	r.MustRegister("pulsar", func(c Context) (gen.Unit, error) {
		t, err := c.Table("table", "sine")
		if err != nil {
			return nil, err
		}
		env, err := c.Table("env", "hann")
		if err != nil {
			return nil, err
		}
		u, err := gen.NewPulsar(c.Host, t, env,
			c.Port("freq", 100), c.Port("frac", 0.5), c.Port("phase", 0), c.Options()...)
		return unit(u, err)
	}, "freq", "frac", "phase")

	r.MustRegister("tableread", func(c Context) (gen.Unit, error) {
		t, err := c.Table("table", "sine")
		if err != nil {
			return nil, err
		}
		tr, err := gen.NewTableRead(c.Host, t, c.Port("freq", t.SampleRate()/float64(t.Size())), c.Options()...)
		if err != nil {
			return nil, err
		}
		tr.SetLoop(c.Params.GetNum("loop", 0) != 0)
		tr.SetKeepLast(c.Params.GetNum("keeplast", 0) != 0)
		return tr, nil
	}, "freq")

	r.MustRegister("tableread-trig", func(c Context) (gen.Unit, error) {
		src, _ := c.Input("source")
		tr, ok := src.(*gen.TableRead)
		if !ok {
			return nil, fmt.Errorf("patch: %s: source must be a tableread node", c.Params.ID)
		}
		return tr.Trig(c.Options()...), nil
	}, "source")

	r.MustRegister("fm", func(c Context) (gen.Unit, error) {
		return gen.NewFm(c.Host, c.Port("carrier", 100), c.Port("ratio", 0.5), c.Port("index", 5), c.Options()...), nil
	}, "carrier", "ratio", "index")

	r.MustRegister("crossfm", func(c Context) (gen.Unit, error) {
		return gen.NewCrossFm(c.Host, c.Port("carrier", 100), c.Port("ratio", 0.5),
			c.Port("ind1", 2), c.Port("ind2", 2), c.Options()...), nil
	}, "carrier", "ratio", "ind1", "ind2")

	r.MustRegister("blit", func(c Context) (gen.Unit, error) {
		return gen.NewBlit(c.Host, c.Port("freq", 100), c.Port("harms", 40), c.Options()...), nil
	}, "freq", "harms")

	r.MustRegister("rossler", func(c Context) (gen.Unit, error) {
		return gen.NewRossler(c.Host, c.Port("pitch", 0.25), c.Port("chaos", 0.5), c.Options()...), nil
	}, "pitch", "chaos")

	r.MustRegister("lorenz", func(c Context) (gen.Unit, error) {
		return gen.NewLorenz(c.Host, c.Port("pitch", 0.25), c.Port("chaos", 0.5), c.Options()...), nil
	}, "pitch", "chaos")

	r.MustRegister("attractor-alt", func(c Context) (gen.Unit, error) {
		src, _ := c.Input("source")
		a, ok := src.(interface {
			Alt(opts ...gen.Option) *gen.AttractorAlt
		})
		if !ok {
			return nil, fmt.Errorf("patch: %s: source must be a rossler or lorenz node", c.Params.ID)
		}
		return a.Alt(c.Options()...), nil
	}, "source")

	r.MustRegister("looper", looperFactory, "pitch", "start", "dur", "xfade")

	r.MustRegister("granulator", func(c Context) (gen.Unit, error) {
		t, err := c.Table("table", "sine")
		if err != nil {
			return nil, err
		}
		env, err := c.Table("env", "hann")
		if err != nil {
			return nil, err
		}
		g, err := gen.NewGranulator(c.Host, t, env,
			c.Port("pitch", 1), c.Port("pos", 0), c.Port("dur", gen.DefaultBaseDur), c.Options()...)
		if err != nil {
			return nil, err
		}
		if err := g.SetGrains(int(c.Params.GetNum("grains", gen.DefaultGrains))); err != nil {
			g.Close()
			return nil, err
		}
		if err := g.SetBaseDur(c.Params.GetNum("basedur", gen.DefaultBaseDur)); err != nil {
			g.Close()
			return nil, err
		}
		return g, nil
	}, "pitch", "pos", "dur")

	r.MustRegister("lfo", func(c Context) (gen.Unit, error) {
		shape := gen.LFOShape(c.Params.GetNum("shape", float64(gen.LFOSawUp)))
		u, err := gen.NewLFO(c.Host, c.Port("freq", 100), c.Port("sharp", 0.5), shape, c.Options()...)
		return unit(u, err)
	}, "freq", "sharp")

	r.MustRegister("noise", func(c Context) (gen.Unit, error) {
		kind := gen.NoiseKind(c.Params.GetNum("kind", float64(gen.NoiseRand)))
		u, err := gen.NewNoise(c.Host, kind, c.Options()...)
		return unit(u, err)
	})

	r.MustRegister("pinknoise", func(c Context) (gen.Unit, error) {
		return gen.NewPinkNoise(c.Host, c.Options()...), nil
	})

	r.MustRegister("brownnoise", func(c Context) (gen.Unit, error) {
		return gen.NewBrownNoise(c.Host, c.Options()...), nil
	})

	return r
}

func indexedFactory[U gen.Unit](
	newFn func(gen.Host, wavetable.Table, port.Port, ...gen.Option) (U, error),
) Factory {
	return func(c Context) (gen.Unit, error) {
		t, err := c.Table("table", "sine")
		if err != nil {
			return nil, err
		}
		u, err := newFn(c.Host, t, c.Port("index", 0), c.Options()...)
		return unit(u, err)
	}
}

func looperFactory(c Context) (gen.Unit, error) {
	t, err := c.Table("table", "sine")
	if err != nil {
		return nil, err
	}

	l, err := gen.NewLooper(c.Host, t, c.Port("pitch", 1), c.Port("start", 0),
		c.Port("dur", float64(t.Size())/t.SampleRate()), c.Port("xfade", 20), c.Options()...)
	if err != nil {
		return nil, err
	}

	if err := l.SetMode(gen.LoopMode(c.Params.GetNum("mode", float64(gen.LoopForward)))); err != nil {
		l.Close()
		return nil, err
	}
	l.SetXfadeShape(gen.XfadeShape(c.Params.GetNum("xfadeshape", float64(gen.XfadeLinear))))
	l.SetStartFromLoop(c.Params.GetNum("startfromloop", 0) != 0)
	l.SetAutoSmooth(c.Params.GetNum("autosmooth", 0) != 0)

	return l, nil
}
