package mutate

import (
	"math/rand"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// ReplaceReuse picks a random subterm S (the replacement), then searches for
// a distinct subterm T of the same output type and substitutes a clone of S
// for T. Skipped if no type-compatible target exists anywhere in the trace.
func ReplaceReuse(tr *trace.Trace, _ *term.Signature, rng *rand.Rand, constraints term.TermConstraints) MutationResult {
	locs := collectLocations(tr, func(st term.Subterm) bool { return constraints.Satisfies(st.Term) })
	if len(locs) == 0 {
		emitSkipped("replace_reuse")
		return Skipped
	}

	srcLoc := locs[rng.Intn(len(locs))]
	src := termAt(tr, srcLoc)

	var targets []location
	for _, loc := range locs {
		if loc.equal(srcLoc) {
			continue
		}
		if termAt(tr, loc).OutputType().Equal(src.OutputType()) {
			targets = append(targets, loc)
		}
	}
	if len(targets) == 0 {
		emitSkipped("replace_reuse")
		return Skipped
	}

	targetLoc := targets[rng.Intn(len(targets))]
	replaceAt(tr, targetLoc, src.Clone())

	emitApplied("replace_reuse")
	return Mutated
}
