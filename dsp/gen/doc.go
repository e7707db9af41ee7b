// Package gen implements block-based signal generators: table oscillators,
// table readers, modulation synthesis, chaotic attractors, a crossfading
// looper and a granulator.
//
// Every unit owns one output block of the host block size. Parameters are
// [port.Port] values; each setter re-dispatches the unit's block routine
// synchronously, so the routine always matches the current scalar/signal
// shape of the ports. After the block routine runs, a shared post-processing
// stage applies mul and add.
//
// Units are not safe for concurrent use. A host calls Compute on every
// registered unit once per block, producers before consumers.
package gen
