package term

import "math/rand"

// Path is a sequence of child indices from a root term identifying a
// descendant subterm.
type Path []int

// Less implements the lexicographic tie-break ordering over paths required
// when mutators must deterministically order candidates.
func (p Path) Less(o Path) bool {
	for i := 0; i < len(p) && i < len(o); i++ {
		if p[i] != o[i] {
			return p[i] < o[i]
		}
	}
	return len(p) < len(o)
}

// Subterm pairs a term reachable from some root with the path that reaches
// it (empty path denotes the root itself).
type Subterm struct {
	Term Term
	Path Path
}

// Subterms returns every descendant of t, t included, together with the path
// from t to each. Traversal order is pre-order (root first, then children
// left-to-right).
func Subterms(t Term) []Subterm {
	var out []Subterm
	var walk func(cur Term, path Path)
	walk = func(cur Term, path Path) {
		p := append(Path{}, path...)
		out = append(out, Subterm{Term: cur, Path: p})
		for i, c := range cur.children() {
			child := append(append(Path{}, path...), i)
			walk(c, child)
		}
	}
	walk(t, nil)
	return out
}

// Size returns the total node count of t, t included.
func Size(t Term) int {
	n := 1
	for _, c := range t.children() {
		n += Size(c)
	}
	return n
}

// TermConstraints bounds mutator sampling to subterms whose total node count
// falls in the inclusive [MinTermSize, MaxTermSize] range.
type TermConstraints struct {
	MinTermSize int
	MaxTermSize int
}

// Satisfies reports whether t's size falls within c. A zero-value
// TermConstraints (both bounds zero) is treated as unconstrained.
func (c TermConstraints) Satisfies(t Term) bool {
	if c.MinTermSize == 0 && c.MaxTermSize == 0 {
		return true
	}
	n := Size(t)
	return n >= c.MinTermSize && n <= c.MaxTermSize
}

// ChooseFiltered returns a uniformly-sampled subterm (t included) satisfying
// pred, or false if no candidate qualifies. Uniformity is over the filtered
// candidate set, not the full subterm set.
func ChooseFiltered(t Term, pred func(Subterm) bool, rng *rand.Rand) (Subterm, bool) {
	var candidates []Subterm
	for _, s := range Subterms(t) {
		if pred(s) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return Subterm{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// AtPath descends from t to the subterm reachable by path.
func AtPath(t Term, path Path) Term {
	cur := t
	for _, idx := range path {
		cur = cur.children()[idx]
	}
	return cur
}

// ReplaceAtPath returns a copy of t with the subterm at path replaced by
// replacement. Structural typing is preserved only if the caller (a
// mutator) guarantees replacement.OutputType() equals the type of the
// subterm being replaced - this function performs the substitution
// mechanically and does not re-check typing.
func ReplaceAtPath(t Term, path Path, replacement Term) Term {
	if len(path) == 0 {
		return replacement
	}
	children := t.children()
	newChildren := make([]Term, len(children))
	copy(newChildren, children)
	newChildren[path[0]] = ReplaceAtPath(children[path[0]], path[1:], replacement)
	return t.withChildren(newChildren)
}

// FindSameShape searches the proper descendants of within (excluding within
// itself - its "grand-children" in the Remove-and-Lift sense, at any depth)
// for one whose output type equals target, returning every match. Used by
// Remove-and-Lift to find a lift target inside a multi-child Application's
// child.
func FindSameShape(within Term, target TypeShape) []Subterm {
	var matches []Subterm
	for _, s := range Subterms(within) {
		if len(s.Path) == 0 {
			continue
		}
		if s.Term.OutputType().Equal(target) {
			matches = append(matches, s)
		}
	}
	return matches
}
