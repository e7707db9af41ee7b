package port

// Reader is satisfied by the two resolved port shapes. Generic sample loops
// are instantiated once per combination of shapes.
type Reader interface {
	Const | Signal
	At(i int) float64
}

// Const is a resolved scalar port.
type Const float64

// At returns the constant regardless of i.
func (c Const) At(int) float64 { return float64(c) }

// Signal is a resolved signal port.
type Signal []float64

// At returns sample i of the block.
func (s Signal) At(i int) float64 { return s[i] }

// Samples is an ad-hoc Source over a fixed slice, handy for feeding recorded
// control data into a unit.
type Samples []float64

// Block implements Source.
func (s Samples) Block() []float64 { return s }
