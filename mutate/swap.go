package mutate

import (
	"math/rand"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// swapPair indexes two candidate positions (into a shared locs slice) whose
// subterms share an output type and neither contains the other.
type swapPair struct {
	a, b int
}

// Swap picks two distinct subterms of identical output type, anywhere in the
// trace (possibly in different steps), and exchanges them. Skipped if fewer
// than two candidates exist, or no pair shares an output type.
func Swap(tr *trace.Trace, _ *term.Signature, rng *rand.Rand, constraints term.TermConstraints) MutationResult {
	locs := collectLocations(tr, func(st term.Subterm) bool { return constraints.Satisfies(st.Term) })
	if len(locs) < 2 {
		emitSkipped("swap")
		return Skipped
	}

	var pairs []swapPair
	for i := 0; i < len(locs); i++ {
		ti := termAt(tr, locs[i])
		for j := i + 1; j < len(locs); j++ {
			if locs[i].stepIndex == locs[j].stepIndex &&
				(isAncestor(locs[i].path, locs[j].path) || isAncestor(locs[j].path, locs[i].path)) {
				continue
			}
			tj := termAt(tr, locs[j])
			if ti.OutputType().Equal(tj.OutputType()) {
				pairs = append(pairs, swapPair{i, j})
			}
		}
	}
	if len(pairs) == 0 {
		emitSkipped("swap")
		return Skipped
	}

	chosen := pairs[rng.Intn(len(pairs))]
	locA, locB := locs[chosen.a], locs[chosen.b]
	a := termAt(tr, locA)
	b := termAt(tr, locB)

	replaceAt(tr, locA, b.Clone())
	replaceAt(tr, locB, a.Clone())

	emitApplied("swap")
	return Mutated
}
