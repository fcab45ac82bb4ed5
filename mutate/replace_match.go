package mutate

import (
	"math/rand"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// matchCandidate pairs an Application location with the set of registered
// functions that could replace it in place: same argument types, same
// return type, different name.
type matchCandidate struct {
	loc     location
	options []term.FunctionDefinition
}

// ReplaceMatch picks, uniformly among Applications that have at least one
// signature-compatible replacement, an Application A, then samples a
// function f' != A.function with f'.SameSignature(A.shape) from sig and
// swaps the function in place. Children are retained unchanged. Skipped if
// no Application in the trace has a qualifying replacement.
func ReplaceMatch(tr *trace.Trace, sig *term.Signature, rng *rand.Rand, constraints term.TermConstraints) MutationResult {
	locs := collectLocations(tr, func(st term.Subterm) bool {
		if !constraints.Satisfies(st.Term) {
			return false
		}
		_, ok := st.Term.(*term.Application)
		return ok
	})

	var candidates []matchCandidate
	for _, loc := range locs {
		app := termAt(tr, loc).(*term.Application)

		var opts []term.FunctionDefinition
		for _, def := range sig.FunctionsReturning(app.Shape.ReturnType) {
			if def.Shape.Name == app.Shape.Name {
				continue
			}
			if def.Shape.SameSignature(app.Shape) {
				opts = append(opts, def)
			}
		}
		if len(opts) > 0 {
			candidates = append(candidates, matchCandidate{loc: loc, options: opts})
		}
	}

	if len(candidates) == 0 {
		emitSkipped("replace_match")
		return Skipped
	}

	chosen := candidates[rng.Intn(len(candidates))]
	app := termAt(tr, chosen.loc).(*term.Application)
	newFn := chosen.options[rng.Intn(len(chosen.options))]

	replacement := &term.Application{Function: newFn.Fn, Shape: newFn.Shape, Children: app.Children}
	replaceAt(tr, chosen.loc, replacement)

	emitApplied("replace_match")
	return Mutated
}
