package main

// demoTarget is the demo unit retuned by MIDI notes.
const demoTarget = "osc"

// demoPatch is a slowly moving saw with a vibrato and a quiet granular bed.
const demoPatch = `{
  "nodes": [
    {"id": "vib", "type": "sine", "params": {"freq": 5, "mul": 3, "add": 220}},
    {"id": "osc", "type": "osc", "params": {"table": "saw", "mul": 0.25}, "out": true},
    {"id": "drift", "type": "lfo", "params": {"freq": 0.1, "sharp": 0.5, "shape": 3, "mul": 3000, "add": 4096}},
    {"id": "grains", "type": "granulator", "params": {"table": "triangle", "pitch": 1.5, "dur": 0.15, "grains": 12, "mul": 0.05}, "out": true}
  ],
  "connections": [
    {"from": "vib", "to": "osc", "param": "freq"},
    {"from": "drift", "to": "grains", "param": "pos"}
  ]
}`
