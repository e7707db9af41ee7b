package gen

import "github.com/cwbudde/algo-synth/dsp/port"

// Fm is a two-operator frequency modulation generator built on the shared
// sine table. The modulator runs at carrier*ratio with a peak deviation of
// modulator frequency times index.
type Fm struct {
	base
	carrier port.Port
	ratio   port.Port
	index   port.Port

	carPos float64
	modPos float64
}

// NewFm creates an FM pair.
func NewFm(h Host, carrier, ratio, index port.Port, opts ...Option) *Fm {
	f := &Fm{carrier: carrier, ratio: ratio, index: index}
	f.setup(h, opts)
	f.setProcMode()
	f.register(f)

	return f
}

// SetCarrier replaces the carrier frequency port.
func (f *Fm) SetCarrier(p port.Port) {
	f.carrier = p
	f.setProcMode()
}

// SetRatio replaces the modulator/carrier ratio port.
func (f *Fm) SetRatio(p port.Port) {
	f.ratio = p
	f.setProcMode()
}

// SetIndex replaces the modulation index port.
func (f *Fm) SetIndex(p port.Port) {
	f.index = p
	f.setProcMode()
}

func (f *Fm) setProcMode() {
	c, r, x := f.carrier, f.ratio, f.index
	switch port.Code(c, r, x) {
	case 0:
		f.proc = func() { fmFill(f, c.Const(), r.Const(), x.Const()) }
	case 1:
		f.proc = func() { fmFill(f, c.Signal(), r.Const(), x.Const()) }
	case 10:
		f.proc = func() { fmFill(f, c.Const(), r.Signal(), x.Const()) }
	case 11:
		f.proc = func() { fmFill(f, c.Signal(), r.Signal(), x.Const()) }
	case 100:
		f.proc = func() { fmFill(f, c.Const(), r.Const(), x.Signal()) }
	case 101:
		f.proc = func() { fmFill(f, c.Signal(), r.Const(), x.Signal()) }
	case 110:
		f.proc = func() { fmFill(f, c.Const(), r.Signal(), x.Signal()) }
	case 111:
		f.proc = func() { fmFill(f, c.Signal(), r.Signal(), x.Signal()) }
	}
}

func fmFill[C, R, X port.Reader](f *Fm, carrier C, ratio R, index X) {
	scale := sineSize / f.sr
	carPos, modPos := f.carPos, f.modPos

	for i := range f.out {
		car := carrier.At(i)
		modFreq := car * ratio.At(i)
		modAmp := modFreq * index.At(i)

		modPos = wrapTable(modPos, sineSize)
		modVal := modAmp * sineAt(modPos)
		modPos += modFreq * scale

		carPos = wrapTable(carPos, sineSize)
		f.out[i] = sineAt(carPos)
		carPos += (car + modVal) * scale
	}

	f.carPos, f.modPos = carPos, modPos
}

// CrossFm is a pair of sine oscillators modulating each other's frequency
// with a one-sample delay. The output is the mean of both oscillators.
type CrossFm struct {
	base
	carrier port.Port
	ratio   port.Port
	ind1    port.Port
	ind2    port.Port

	carPos float64
	modPos float64
	carVal float64
	modVal float64
}

// NewCrossFm creates a cross-modulating pair. ind1 scales the modulator's
// effect on the carrier and ind2 the carrier's effect on the modulator.
func NewCrossFm(h Host, carrier, ratio, ind1, ind2 port.Port, opts ...Option) *CrossFm {
	f := &CrossFm{carrier: carrier, ratio: ratio, ind1: ind1, ind2: ind2}
	f.setup(h, opts)
	f.setProcMode()
	f.register(f)

	return f
}

// SetCarrier replaces the carrier frequency port.
func (f *CrossFm) SetCarrier(p port.Port) {
	f.carrier = p
	f.setProcMode()
}

// SetRatio replaces the ratio port.
func (f *CrossFm) SetRatio(p port.Port) {
	f.ratio = p
	f.setProcMode()
}

// SetInd1 replaces the carrier modulation index port.
func (f *CrossFm) SetInd1(p port.Port) {
	f.ind1 = p
	f.setProcMode()
}

// SetInd2 replaces the modulator modulation index port.
func (f *CrossFm) SetInd2(p port.Port) {
	f.ind2 = p
	f.setProcMode()
}

//nolint:cyclop
func (f *CrossFm) setProcMode() {
	c, r, a, b := f.carrier, f.ratio, f.ind1, f.ind2
	switch port.Code(c, r, a, b) {
	case 0:
		f.proc = func() { crossFmFill(f, c.Const(), r.Const(), a.Const(), b.Const()) }
	case 1:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Const(), a.Const(), b.Const()) }
	case 10:
		f.proc = func() { crossFmFill(f, c.Const(), r.Signal(), a.Const(), b.Const()) }
	case 11:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Signal(), a.Const(), b.Const()) }
	case 100:
		f.proc = func() { crossFmFill(f, c.Const(), r.Const(), a.Signal(), b.Const()) }
	case 101:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Const(), a.Signal(), b.Const()) }
	case 110:
		f.proc = func() { crossFmFill(f, c.Const(), r.Signal(), a.Signal(), b.Const()) }
	case 111:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Signal(), a.Signal(), b.Const()) }
	case 1000:
		f.proc = func() { crossFmFill(f, c.Const(), r.Const(), a.Const(), b.Signal()) }
	case 1001:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Const(), a.Const(), b.Signal()) }
	case 1010:
		f.proc = func() { crossFmFill(f, c.Const(), r.Signal(), a.Const(), b.Signal()) }
	case 1011:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Signal(), a.Const(), b.Signal()) }
	case 1100:
		f.proc = func() { crossFmFill(f, c.Const(), r.Const(), a.Signal(), b.Signal()) }
	case 1101:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Const(), a.Signal(), b.Signal()) }
	case 1110:
		f.proc = func() { crossFmFill(f, c.Const(), r.Signal(), a.Signal(), b.Signal()) }
	case 1111:
		f.proc = func() { crossFmFill(f, c.Signal(), r.Signal(), a.Signal(), b.Signal()) }
	}
}

func crossFmFill[C, R, A, B port.Reader](f *CrossFm, carrier C, ratio R, ind1 A, ind2 B) {
	scale := sineSize / f.sr
	carPos, modPos := f.carPos, f.modPos
	carVal, modVal := f.carVal, f.modVal

	for i := range f.out {
		car := carrier.At(i)
		modFreq := car * ratio.At(i)

		carPos = wrapTable(carPos, sineSize)
		modPos = wrapTable(modPos, sineSize)
		cv := sineAt(carPos)
		mv := sineAt(modPos)
		f.out[i] = (cv + mv) * 0.5

		carPos += (car + modVal*modFreq*ind1.At(i)) * scale
		modPos += (modFreq + carVal*car*ind2.At(i)) * scale
		carVal, modVal = cv, mv
	}

	f.carPos, f.modPos = carPos, modPos
	f.carVal, f.modVal = carVal, modVal
}
