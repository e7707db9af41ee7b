package patch

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	registry  *Registry
	tableSize int
	tables    map[string]wavetable.Table
}

// WithRegistry builds nodes from r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(c *buildConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithTable makes t available to nodes under name. It shadows a built-in
// table of the same name.
func WithTable(name string, t wavetable.Table) Option {
	return func(c *buildConfig) {
		if name != "" && t != nil {
			c.tables[name] = t
		}
	}
}

// WithTableSize sets the length of the built-in tables.
func WithTableSize(n int) Option {
	return func(c *buildConfig) {
		if n > 0 {
			c.tableSize = n
		}
	}
}

// Patch is a built graph of units registered on a host.
type Patch struct {
	units map[string]gen.Unit
	order []string
}

// Build parses raw and constructs its units on h in dependency order.
// Nodes flagged "out" are routed to the host output. On error every unit
// created so far is closed again.
func Build(h gen.Host, raw []byte, opts ...Option) (*Patch, error) {
	cfg := buildConfig{
		registry:  DefaultRegistry,
		tableSize: DefaultTableSize,
		tables:    map[string]wavetable.Table{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g, err := parseGraph(raw)
	if err != nil {
		return nil, err
	}

	if err := validate(g, cfg.registry); err != nil {
		return nil, err
	}

	tables := newTableSet(cfg.tableSize, h.Config().SampleRate, cfg.tables)
	p := &Patch{units: make(map[string]gen.Unit, len(g.Order))}

	for _, id := range g.Order {
		params := g.Nodes[id]
		ctx := Context{
			Host:   h,
			Params: params,
			Inputs: make(map[string]gen.Unit, len(g.Incoming[id])),
			tables: tables,
		}
		for _, e := range g.Incoming[id] {
			ctx.Inputs[e.Param] = p.units[e.From]
		}

		u, err := cfg.registry.Lookup(params.Type)(ctx)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("patch: node %q: %w", id, err)
		}
		if params.Out {
			u.Out()
		}

		p.units[id] = u
		p.order = append(p.order, id)
	}

	return p, nil
}

func validate(g *compiledGraph, r *Registry) error {
	for _, id := range g.Order {
		typ := g.Nodes[id].Type
		if r.Lookup(typ) == nil {
			return fmt.Errorf("%w: %q (node %q)", ErrUnknownUnit, typ, id)
		}
		for _, e := range g.Incoming[id] {
			if !r.acceptsPort(typ, e.Param) {
				return fmt.Errorf("%w: %s has no port %q", ErrUnknownParam, typ, e.Param)
			}
		}
	}
	return nil
}

// Unit returns the unit built for node id.
func (p *Patch) Unit(id string) (gen.Unit, bool) {
	u, ok := p.units[id]
	return u, ok
}

// Order returns the node ids in construction order.
func (p *Patch) Order() []string { return slices.Clone(p.order) }

// Close closes every unit of the patch, newest first.
func (p *Patch) Close() {
	for i := len(p.order) - 1; i >= 0; i-- {
		if c, ok := p.units[p.order[i]].(interface{ Close() }); ok {
			c.Close()
		}
	}
	p.units = map[string]gen.Unit{}
	p.order = nil
}
