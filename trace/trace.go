package trace

import "github.com/zoobzio/tlsfuzz/term"

// ActionKind distinguishes an Input step (feed a recipe's evaluation to an
// agent) from an Output step (drain and record an agent's outbound
// messages).
type ActionKind int

// Action kinds.
const (
	ActionInput ActionKind = iota
	ActionOutput
)

// Action is a Step's payload: an Input step carries the recipe Term to
// evaluate and deliver; an Output step carries nothing - it simply records
// the agent's outbound messages into the knowledge store.
type Action struct {
	Kind   ActionKind
	Recipe term.Term // non-nil only when Kind == ActionInput
}

// InputAction builds an Input action wrapping recipe.
func InputAction(recipe term.Term) Action { return Action{Kind: ActionInput, Recipe: recipe} }

// OutputAction builds an Output action.
func OutputAction() Action { return Action{Kind: ActionOutput} }

// Step is one action (input or output) directed at a single agent.
type Step struct {
	Agent  term.AgentName
	Action Action
}

// Trace is an ordered list of steps over a set of agent descriptors - the
// fuzzer's unit of testing. Traces are cloned freely; Clone performs a
// deep clone of every step's recipe term, which must be cheap relative to
// execution.
type Trace struct {
	Descriptors []AgentDescriptor
	Steps       []Step
}

// NewTrace builds a Trace from agent descriptors and an initial step list.
func NewTrace(descriptors []AgentDescriptor, steps ...Step) *Trace {
	return &Trace{Descriptors: descriptors, Steps: steps}
}

// Clone returns a deep copy of t: a new Steps slice whose Input recipes are
// independently cloned terms, safe to mutate without affecting t.
func (t *Trace) Clone() *Trace {
	steps := make([]Step, len(t.Steps))
	for i, s := range t.Steps {
		step := Step{Agent: s.Agent, Action: Action{Kind: s.Action.Kind}}
		if s.Action.Kind == ActionInput && s.Action.Recipe != nil {
			step.Action.Recipe = s.Action.Recipe.Clone()
		}
		steps[i] = step
	}
	descriptors := make([]AgentDescriptor, len(t.Descriptors))
	copy(descriptors, t.Descriptors)
	return &Trace{Descriptors: descriptors, Steps: steps}
}
