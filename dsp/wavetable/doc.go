// Package wavetable provides immutable-by-convention sample tables read by
// generator units.
//
// Every table stores Size()+1 samples: the extra guard sample lets
// interpolating readers access index i+1 for any i in [0, Size()-1].
// Periodic tables (harmonic, saw, square, chebyshev) repeat the first sample
// as guard; one-shot tables (envelopes, segments, loaded samples) repeat the
// last sample.
package wavetable
