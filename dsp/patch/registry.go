package patch

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/cwbudde/algo-synth/dsp/gen"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/port"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// ErrUnknownUnit is returned when a node names an unregistered unit type.
var ErrUnknownUnit = errors.New("patch: unknown unit type")

var errDuplicateUnit = errors.New("duplicate unit type")

// commonPorts are accepted by every unit type.
var commonPorts = []string{"mul", "add"}

// Factory builds one unit for a node.
type Factory func(ctx Context) (gen.Unit, error)

// Context is what a factory sees of the node it builds.
type Context struct {
	Host   gen.Host
	Params Params
	// Inputs maps port names to the units connected to them.
	Inputs map[string]gen.Unit

	tables *tableSet
}

// Port returns the signal connected to name, or a scalar holding the numeric
// parameter name (def when absent).
func (c Context) Port(name string, def float64) port.Port {
	if u, ok := c.Inputs[name]; ok {
		return port.From(u)
	}
	return port.Scalar(c.Params.GetNum(name, def))
}

// Input returns the unit connected to name.
func (c Context) Input(name string) (gen.Unit, bool) {
	u, ok := c.Inputs[name]
	return u, ok
}

// Table resolves the table named by the string parameter key, or def.
func (c Context) Table(key, def string) (wavetable.Table, error) {
	name := c.Params.GetStr(key, def)
	if c.tables == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return c.tables.get(name)
}

// Options returns the construction options shared by all units: mul and add
// ports, plus interp and seed when the node sets them.
func (c Context) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithMul(c.Port("mul", 1)),
		gen.WithAdd(c.Port("add", 0)),
	}
	if _, ok := c.Params.Num["interp"]; ok {
		opts = append(opts, gen.WithInterp(interp.Mode(c.Params.GetNum("interp", float64(interp.Linear)))))
	}
	if _, ok := c.Params.Num["seed"]; ok {
		opts = append(opts, gen.WithSeed(int64(c.Params.GetNum("seed", 1))))
	}
	return opts
}

type registration struct {
	factory Factory
	ports   []string
}

// Registry maps unit type names to their factories and connectable ports.
type Registry struct {
	entries map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a factory for unitType. ports lists the parameter names
// connections may target besides mul and add.
func (r *Registry) Register(unitType string, factory Factory, ports ...string) error {
	if unitType == "" {
		return errors.New("empty unit type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.entries[unitType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateUnit, unitType)
	}

	r.entries[unitType] = registration{factory: factory, ports: slices.Clone(ports)}

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(unitType string, factory Factory, ports ...string) {
	err := r.Register(unitType, factory, ports...)
	if err != nil {
		panic("patch registry: " + err.Error())
	}
}

// Lookup returns the factory for the given unit type, or nil.
func (r *Registry) Lookup(unitType string) Factory {
	return r.entries[unitType].factory
}

// Ports returns the connectable ports of unitType, including mul and add.
func (r *Registry) Ports(unitType string) []string {
	e, ok := r.entries[unitType]
	if !ok {
		return nil
	}
	return append(slices.Clone(e.ports), commonPorts...)
}

// Types returns the registered unit types in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) acceptsPort(unitType, name string) bool {
	return slices.Contains(commonPorts, name) || slices.Contains(r.entries[unitType].ports, name)
}
