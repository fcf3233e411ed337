package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"serve": {
			Flags: map[string]complete.Predictor{"addr": predict.Something},
		},
		"add": {
			Flags: map[string]complete.Predictor{
				"d": predict.Something,
				"a": predict.Something,
				"t": predict.Something,
			},
		},
		"rm": {
			Args: predict.Something,
		},
		"list": {
			Flags: map[string]complete.Predictor{"plain": predict.Nothing},
		},
		"balance": {
			Flags: map[string]complete.Predictor{"plain": predict.Nothing},
		},
		"help":     {Args: predict.Set{"serve", "add", "rm", "list", "balance"}},
		"commands": {},
		"flags":    {},
	},
}

// runCompletion answers completion requests when COMP_LINE is set and exits;
// otherwise it returns immediately.
func runCompletion() {
	completion.Complete("finances")
}
