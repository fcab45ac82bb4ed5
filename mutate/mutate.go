// Package mutate implements the six type-preserving trace mutators: Repeat,
// Skip, Replace-Reuse, Replace-Match, Remove-and-Lift, and Swap. Every
// mutator is a plain function against a shared Mutator signature rather than
// a type hierarchy, keeping polymorphic dispatch to a function table instead
// of an inheritance chain.
package mutate

import (
	"math/rand"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// MutationResult reports whether a mutator changed the trace.
type MutationResult int

// Mutation outcomes.
const (
	Skipped MutationResult = iota
	Mutated
)

func (r MutationResult) String() string {
	if r == Mutated {
		return "Mutated"
	}
	return "Skipped"
}

// Mutator is the uniform signature every mutator implements: a mutable
// trace, the active function-symbol catalog (needed by Replace-Match), a
// random source, and shared term-size constraints.
type Mutator func(tr *trace.Trace, sig *term.Signature, rng *rand.Rand, constraints term.TermConstraints) MutationResult

// Table names every mutator for random selection by the surrounding fuzzing
// loop (out of core scope; this is the hook it drives).
type Table map[string]Mutator

// DefaultTable returns the six core mutators under their canonical names.
func DefaultTable() Table {
	return Table{
		"repeat":          Repeat,
		"skip":            Skip,
		"replace_reuse":   ReplaceReuse,
		"replace_match":   ReplaceMatch,
		"remove_and_lift": RemoveAndLift,
		"swap":            Swap,
	}
}

// location identifies one subterm within a trace: which step's Input recipe,
// and the path within that recipe. Only Input steps carry a recipe term;
// Output steps are never mutation candidates.
type location struct {
	stepIndex int
	path      term.Path
}

func (l location) equal(o location) bool {
	if l.stepIndex != o.stepIndex || len(l.path) != len(o.path) {
		return false
	}
	for i := range l.path {
		if l.path[i] != o.path[i] {
			return false
		}
	}
	return true
}

// isAncestor reports whether p is a prefix of q - i.e. the subterm at p
// contains the subterm at q.
func isAncestor(p, q term.Path) bool {
	if len(p) > len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// collectLocations enumerates every location across every Input step's
// recipe whose subterm satisfies pred - phase 1 of the two-phase mutation
// process: paths are gathered in full before anything is mutated, since the
// trace is simultaneously the candidate source and the mutation target.
func collectLocations(tr *trace.Trace, pred func(term.Subterm) bool) []location {
	var out []location
	for i, s := range tr.Steps {
		if s.Action.Kind != trace.ActionInput || s.Action.Recipe == nil {
			continue
		}
		for _, st := range term.Subterms(s.Action.Recipe) {
			if pred(st) {
				out = append(out, location{stepIndex: i, path: st.Path})
			}
		}
	}
	return out
}

// termAt resolves a location back to its term - phase 2's entry point.
func termAt(tr *trace.Trace, loc location) term.Term {
	return term.AtPath(tr.Steps[loc.stepIndex].Action.Recipe, loc.path)
}

// replaceAt rewrites the recipe at loc's step so that the subterm at loc's
// path becomes replacement.
func replaceAt(tr *trace.Trace, loc location, replacement term.Term) {
	recipe := tr.Steps[loc.stepIndex].Action.Recipe
	tr.Steps[loc.stepIndex].Action.Recipe = term.ReplaceAtPath(recipe, loc.path, replacement)
}

// cloneStep deep-clones a step, including its recipe if it carries one.
func cloneStep(s trace.Step) trace.Step {
	cp := trace.Step{Agent: s.Agent, Action: trace.Action{Kind: s.Action.Kind}}
	if s.Action.Kind == trace.ActionInput && s.Action.Recipe != nil {
		cp.Action.Recipe = s.Action.Recipe.Clone()
	}
	return cp
}
