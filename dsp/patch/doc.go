// Package patch builds generator graphs from JSON documents.
//
// A patch lists nodes, each naming a registered unit type with numeric or
// string parameters, and connections that route one node's output block into
// a named port of another node:
//
//	{
//	  "nodes": [
//	    {"id": "lfo", "type": "sine", "params": {"freq": 5, "mul": 20, "add": 440}},
//	    {"id": "osc", "type": "osc", "params": {"table": "saw", "mul": 0.2}, "out": true}
//	  ],
//	  "connections": [{"from": "lfo", "to": "osc", "param": "freq"}]
//	}
//
// Build constructs the units on a host in topological order so every unit is
// computed after the units feeding it.
package patch
