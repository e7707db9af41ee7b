package gen

import "math"

// sineSize is the number of segments in the shared sine table.
const sineSize = 512

// sineTable holds one sine period over sineSize segments plus a guard point.
// It is built once and never written afterwards.
var sineTable = func() [sineSize + 1]float64 {
	var t [sineSize + 1]float64
	for i := range sineSize {
		t[i] = math.Sin(2 * math.Pi * float64(i) / sineSize)
	}
	t[sineSize] = t[0]
	return t
}()

// sineAt reads the shared sine table at a position in [0, sineSize).
func sineAt(pos float64) float64 {
	i := int(pos)
	f := pos - float64(i)
	return sineTable[i]*(1-f) + sineTable[i+1]*f
}

// wrapUnit maps x into [0,1). A value that lands exactly on 1 after wrapping
// is normalised to 0.
func wrapUnit(x float64) float64 {
	if x < 0 {
		x++
		if x < 0 {
			x -= math.Floor(x)
		}
	} else if x >= 1 {
		x--
		if x >= 1 {
			x -= math.Floor(x)
		}
	}

	if x >= 1 {
		return 0
	}
	return x
}

// wrapTable maps x into [0,size). Small excursions take one subtraction;
// larger ones remove whole periods at once.
func wrapTable(x, size float64) float64 {
	if x < 0 {
		x += float64(int(-x/size)+1) * size
	} else if x >= size {
		x -= float64(int(x/size)) * size
	}

	switch {
	case x >= size:
		return x - size
	case x < 0:
		return x + size
	}
	return x
}
