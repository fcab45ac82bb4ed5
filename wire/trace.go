package wire

import (
	"fmt"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// Action kinds, as wire strings.
const (
	ActionInput  = "input"
	ActionOutput = "output"
)

// Step is the wire form of a trace.Step.
type Step struct {
	Agent  term.AgentName `json:"agent" yaml:"agent"`
	Action string         `json:"action" yaml:"action"`
	Recipe *Term          `json:"recipe,omitempty" yaml:"recipe,omitempty"`
}

// Trace is the wire form of a trace.Trace: agent descriptors plus an
// ordered step list, with every recipe term flattened to its wire form.
type Trace struct {
	Descriptors []trace.AgentDescriptor `json:"descriptors" yaml:"descriptors"`
	Steps       []Step                  `json:"steps" yaml:"steps"`
}

// FromTrace converts a live trace.Trace into its wire form.
func FromTrace(t *trace.Trace) (Trace, error) {
	steps := make([]Step, len(t.Steps))
	for i, s := range t.Steps {
		step := Step{Agent: s.Agent}
		switch s.Action.Kind {
		case trace.ActionInput:
			step.Action = ActionInput
			wt, err := FromTerm(s.Action.Recipe)
			if err != nil {
				return Trace{}, err
			}
			step.Recipe = &wt
		case trace.ActionOutput:
			step.Action = ActionOutput
		default:
			return Trace{}, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("wire: unknown action kind %d", s.Action.Kind)}
		}
		steps[i] = step
	}
	return Trace{Descriptors: t.Descriptors, Steps: steps}, nil
}

// ToTrace resolves a wire Trace back into a live trace.Trace against sig.
func ToTrace(w Trace, sig *term.Signature) (*trace.Trace, error) {
	steps := make([]trace.Step, len(w.Steps))
	for i, s := range w.Steps {
		switch s.Action {
		case ActionInput:
			if s.Recipe == nil {
				return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: "wire: input step missing recipe"}
			}
			recipe, err := ToTerm(*s.Recipe, sig)
			if err != nil {
				return nil, err
			}
			steps[i] = trace.Step{Agent: s.Agent, Action: trace.InputAction(recipe)}
		case ActionOutput:
			steps[i] = trace.Step{Agent: s.Agent, Action: trace.OutputAction()}
		default:
			return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("wire: unknown action %q", s.Action)}
		}
	}
	return trace.NewTrace(w.Descriptors, steps...), nil
}
