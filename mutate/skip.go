package mutate

import (
	"math/rand"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// Skip removes a uniformly random step. Skipped when the trace is empty.
func Skip(tr *trace.Trace, _ *term.Signature, rng *rand.Rand, _ term.TermConstraints) MutationResult {
	if len(tr.Steps) == 0 {
		emitSkipped("skip")
		return Skipped
	}

	idx := rng.Intn(len(tr.Steps))
	tr.Steps = append(tr.Steps[:idx], tr.Steps[idx+1:]...)

	emitApplied("skip")
	return Mutated
}
