package mutate

import (
	"math/rand"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// liftCandidate identifies a child C (by its location) of some multi- or
// single-child Application P, together with a proper descendant G of C (at
// any depth) whose output type matches C's - the subterm that would replace C
// in place.
type liftCandidate struct {
	loc         location
	replacement term.Term
}

// RemoveAndLift finds an Application P with a child C that itself has a
// descendant G (at any depth below C, searched across every child of a
// possibly multi-child P) whose output type equals C's, and replaces C in
// place with a clone of G.
// This strictly contracts the term and preserves typing. Skipped if no such
// (P, C, G) triple exists anywhere in the trace.
func RemoveAndLift(tr *trace.Trace, _ *term.Signature, rng *rand.Rand, constraints term.TermConstraints) MutationResult {
	var candidates []liftCandidate

	for i, s := range tr.Steps {
		if s.Action.Kind != trace.ActionInput || s.Action.Recipe == nil {
			continue
		}
		for _, st := range term.Subterms(s.Action.Recipe) {
			app, ok := st.Term.(*term.Application)
			if !ok || !constraints.Satisfies(st.Term) {
				continue
			}
			for j, child := range app.Children {
				matches := term.FindSameShape(child, child.OutputType())
				if len(matches) == 0 {
					continue
				}
				childPath := append(append(term.Path{}, st.Path...), j)
				for _, m := range matches {
					candidates = append(candidates, liftCandidate{
						loc:         location{stepIndex: i, path: childPath},
						replacement: m.Term,
					})
				}
			}
		}
	}

	if len(candidates) == 0 {
		emitSkipped("remove_and_lift")
		return Skipped
	}

	chosen := candidates[rng.Intn(len(candidates))]
	replaceAt(tr, chosen.loc, chosen.replacement.Clone())

	emitApplied("remove_and_lift")
	return Mutated
}
