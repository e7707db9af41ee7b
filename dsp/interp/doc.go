// Package interp provides the table interpolation kernel shared by every
// table-reading generator.
//
// A table of nominal length size is stored with one guard sample, so reads
// at index i and i+1 are valid for every i in [0, size-1]. The available
// modes, from cheapest to smoothest:
//
//   - [None]:   truncation, returns table[i]
//   - [Linear]: 2-point linear blend (default)
//   - [Cosine]: raised-cosine blend through a precomputed curve
//   - [Cubic]:  4-point Lagrange cubic with edge clamping
//
// [Select] resolves a [Mode] to a [Func] once, so generators never branch on
// the mode inside their sample loops.
package interp
