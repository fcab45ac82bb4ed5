package mutate

import (
	"math/rand"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// Repeat picks a uniformly random existing step and inserts a deep clone at
// a uniformly random index in [0, len] inclusive, so the repeated step may
// land anywhere up to and including the very end of the trace. Skipped only
// when the trace has no steps to repeat.
func Repeat(tr *trace.Trace, _ *term.Signature, rng *rand.Rand, _ term.TermConstraints) MutationResult {
	if len(tr.Steps) == 0 {
		emitSkipped("repeat")
		return Skipped
	}

	src := tr.Steps[rng.Intn(len(tr.Steps))]
	clone := cloneStep(src)

	insertIdx := rng.Intn(len(tr.Steps) + 1)
	tr.Steps = append(tr.Steps, trace.Step{})
	copy(tr.Steps[insertIdx+1:], tr.Steps[insertIdx:len(tr.Steps)-1])
	tr.Steps[insertIdx] = clone

	emitApplied("repeat")
	return Mutated
}
