package patch_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/patch"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func ExampleBuild() {
	h := testutil.NewHost()

	p, err := patch.Build(h, []byte(`{
		"nodes": [
			{"id": "osc", "type": "osc", "params": {"table": "saw", "mul": 0.2}, "out": true},
			{"id": "vib", "type": "sine", "params": {"freq": 5, "mul": 4, "add": 220}}
		],
		"connections": [{"from": "vib", "to": "osc", "param": "freq"}]
	}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer p.Close()

	fmt.Println(p.Order())
	// Output:
	// [vib osc]
}
