// Package engine provides Server, a block scheduler that hosts generator
// units, mixes the ones routed to its output and lets other goroutines queue
// changes that are applied between blocks.
package engine
